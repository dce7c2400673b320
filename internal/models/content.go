// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Article is a blog post shown on the public blog pages.
type Article struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug,omitempty"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Catalogue is a downloadable product catalogue.
type Catalogue struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	FileURL  string `json:"fileUrl,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ServiceCenter is a physical repair/service location.
type ServiceCenter struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
	MapURL  string `json:"mapUrl,omitempty"`
}
