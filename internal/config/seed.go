package config

import (
	"fmt"

	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/spf13/viper"
)

type seedCategory struct {
	ID               int64   `mapstructure:"id"`
	Name             string  `mapstructure:"name"`
	Weight           string  `mapstructure:"weight"`
	Price            float64 `mapstructure:"price"`
	Stock            int     `mapstructure:"stock"`
	ReorderThreshold *int    `mapstructure:"reorder_threshold"`
}

type seedTaxRate struct {
	ID   int64   `mapstructure:"id"`
	Name string  `mapstructure:"name"`
	Rate float64 `mapstructure:"rate"`
}

type seedFile struct {
	Categories []seedCategory `mapstructure:"categories"`
	TaxRates   []seedTaxRate  `mapstructure:"tax_rates"`
}

// LoadSeed читает начальные категории и ставки из TOML файла.
// Пустой путь или пустая секция означают значения по умолчанию.
//
//	[[categories]]
//	id = 1
//	name = "Small"
//	weight = "500g"
//	price = 5.0
//	reorder_threshold = 10
//
//	[[tax_rates]]
//	id = 1
//	name = "Standard Tax"
//	rate = 0.15
func LoadSeed(path string) (repository.Seed, error) {
	seed := repository.DefaultSeed()
	if path == "" {
		return seed, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return seed, fmt.Errorf("ошибка чтения seed файла %s: %w", path, err)
	}

	var file seedFile
	if err := v.Unmarshal(&file); err != nil {
		return seed, fmt.Errorf("ошибка разбора seed файла %s: %w", path, err)
	}

	if len(file.Categories) > 0 {
		seed.Categories = make([]models.Category, 0, len(file.Categories))
		seen := make(map[int64]bool, len(file.Categories))
		for i, c := range file.Categories {
			if c.Name == "" || c.Price < 0 || c.Stock < 0 {
				return seed, fmt.Errorf("%w: категория #%d в seed файле", models.ErrInvalidField, i+1)
			}
			id := c.ID
			if id == 0 {
				id = int64(i + 1)
			}
			if id < 0 || seen[id] {
				return seed, fmt.Errorf("%w: категория #%d в seed файле, повтор id=%d", models.ErrInvalidField, i+1, id)
			}
			seen[id] = true
			threshold := models.DefaultReorderThreshold
			if c.ReorderThreshold != nil {
				threshold = *c.ReorderThreshold
			}
			seed.Categories = append(seed.Categories, models.Category{
				ID:               id,
				Name:             c.Name,
				Weight:           c.Weight,
				Price:            c.Price,
				Stock:            c.Stock,
				ReorderThreshold: threshold,
			})
		}
	}

	if len(file.TaxRates) > 0 {
		seed.TaxRates = make([]models.TaxRate, 0, len(file.TaxRates))
		seen := make(map[int64]bool, len(file.TaxRates))
		for i, r := range file.TaxRates {
			if r.Name == "" || r.Rate < 0 {
				return seed, fmt.Errorf("%w: ставка #%d в seed файле", models.ErrInvalidField, i+1)
			}
			id := r.ID
			if id == 0 {
				id = int64(i + 1)
			}
			if id < 0 || seen[id] {
				return seed, fmt.Errorf("%w: ставка #%d в seed файле, повтор id=%d", models.ErrInvalidField, i+1, id)
			}
			seen[id] = true
			seed.TaxRates = append(seed.TaxRates, models.TaxRate{ID: id, Name: r.Name, Rate: r.Rate})
		}
	}
	return seed, nil
}
