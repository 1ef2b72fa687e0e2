package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/football_store/internal/models"
)

type seedProduct struct {
	name        string
	description string
	price       string
	category    models.Category
	brand       models.Brand
}

var starterProducts = []seedProduct{
	{"Adidas Predator Elite", "Amazing football boots from Adidas", "359.99", models.CategoryBoots, models.BrandAdidas},
	{"Nike Phantom Luna II Pro", "New vision from Nike", "339.99", models.CategoryBoots, models.BrandNike},
	{"Nike Zoom Mercurial Vapor 16", "Incredible football boots", "299.99", models.CategoryBoots, models.BrandNike},
	{"Puma Future 7 Ultimate", "Football boots with top quality", "199.99", models.CategoryBoots, models.BrandPuma},
	{"Mizuno Morelia IV Pro", "Elegant, comfortable football boots", "249.99", models.CategoryBoots, models.BrandMizuno},
	{"New Balance Tekela V4+", "Feel the balance with these boots", "279.99", models.CategoryBoots, models.BrandNewBalance},
	{"Adidas UCL League Istanbul", "Highest quality ball from Adidas", "149.99", models.CategoryBalls, models.BrandAdidas},
	{"Nike Premier League Flight", "Highest quality ball from Nike", "169.99", models.CategoryBalls, models.BrandNike},
	{"Puma Neymar Jr Diamond", "Highest quality ball from Puma", "179.99", models.CategoryBalls, models.BrandPuma},
	{"Adidas Messi Club", "Ball from the Messi collection", "229.99", models.CategoryBalls, models.BrandAdidas},
	{"Adidas UCL League 24/25", "Champions League ball", "339.99", models.CategoryBalls, models.BrandAdidas},
	{"Nike Premier League+", "Premier League Academy ball", "309.99", models.CategoryBalls, models.BrandNike},
	{"Nike FC Barcelona Jersey", "Barcelona home jersey", "99.99", models.CategoryJerseys, models.BrandNike},
	{"Nike FC Barcelona Green", "Barcelona jersey made for winners", "89.99", models.CategoryJerseys, models.BrandNike},
	{"Adidas Real Madrid Jersey", "Top quality Real Madrid jersey", "79.99", models.CategoryJerseys, models.BrandAdidas},
	{"Nike Liverpool Jersey", "Top quality Liverpool jersey", "69.99", models.CategoryJerseys, models.BrandNike},
	{"Nike Atletico Madrid Jersey", "Atletico Madrid home jersey", "59.99", models.CategoryJerseys, models.BrandNike},
	{"Nike Chelsea Jersey", "Jersey from the Chelsea collection", "89.99", models.CategoryJerseys, models.BrandNike},
}

func starterCatalog() []models.Product {
	out := make([]models.Product, 0, len(starterProducts))
	for _, sp := range starterProducts {
		out = append(out, models.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.RequireFromString(sp.price),
			Category:    sp.category,
			Brand:       sp.brand,
			ImageURL:    "/static/products/" + slug(sp.name) + ".webp",
			InStock:     true,
		})
	}
	return out
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
