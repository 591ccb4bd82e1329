// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed fills a freshly created database with the default
// administrator, theme and sample pages.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/service"
	"github.com/olegiv/ocms-lite/internal/store"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin123"
)

// samplePages are created published and in the menu, in this order.
var samplePages = []form.PageForm{
	{
		Title:     "Accueil",
		Slug:      "home",
		MenuOrder: 0,
		Content: `<h2>Bienvenue sur notre site web!</h2>
<p>Ceci est la page d'accueil de votre nouveau site web géré par un CMS moderne.</p>
<p>Vous pouvez modifier ce contenu et personnaliser votre site depuis le panneau d'administration.</p>
<h3>Fonctionnalités principales</h3>
<ul>
  <li>Gestion de pages dynamiques</li>
  <li>Médiathèque pour vos images et logos</li>
  <li>Personnalisation complète des couleurs</li>
  <li>Interface d'administration intuitive</li>
</ul>`,
	},
	{
		Title:     "À propos",
		Slug:      "a-propos",
		MenuOrder: 1,
		Content: `<h2>À propos de nous</h2>
<p>Cette page présente votre entreprise ou votre projet.</p>
<p>Personnalisez ce contenu selon vos besoins depuis le panneau d'administration.</p>
<h3>Notre mission</h3>
<p>Fournir un template de site web moderne et facilement personnalisable.</p>`,
	},
	{
		Title:     "Contact",
		Slug:      "contact",
		MenuOrder: 2,
		Content: `<h2>Nous contacter</h2>
<p>N'hésitez pas à nous contacter pour toute question.</p>
<h4>Informations de contact</h4>
<p>
  <strong>Email:</strong> contact@example.com<br>
  <strong>Téléphone:</strong> +33 1 23 45 67 89<br>
  <strong>Adresse:</strong> 123 Rue Example, 75001 Paris
</p>
<h4>Horaires</h4>
<p>
  Lundi - Vendredi: 9h00 - 18h00<br>
  Samedi: 10h00 - 16h00<br>
  Dimanche: Fermé
</p>`,
	},
}

// Result lists what Run created.
type Result struct {
	Admin store.User
	Theme store.Theme
	Pages []store.Page
}

// Run creates the default data through the services, so every row passes
// the same validation as data entered in the admin. It expects an empty
// schema.
func Run(ctx context.Context, db *sql.DB) (Result, error) {
	var res Result
	var err error

	res.Admin, err = service.NewUserService(db).Create(ctx, form.UserForm{
		Username:        DefaultAdminUsername,
		Email:           DefaultAdminEmail,
		Password:        DefaultAdminPassword,
		ConfirmPassword: DefaultAdminPassword,
		IsAdmin:         true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("creating admin user: %w", err)
	}

	res.Theme, err = service.NewThemeService(db).GetOrCreate(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("creating default theme: %w", err)
	}

	pages := service.NewPageService(db)
	for _, f := range samplePages {
		f.IsPublished = true
		f.ShowInMenu = true
		page, err := pages.Create(ctx, f, res.Admin.ID)
		if err != nil {
			return Result{}, fmt.Errorf("creating page %q: %w", f.Slug, err)
		}
		res.Pages = append(res.Pages, page)
	}

	slog.Info("database seeded",
		"admin_id", res.Admin.ID,
		"theme_id", res.Theme.ID,
		"pages", len(res.Pages),
	)
	return res, nil
}
