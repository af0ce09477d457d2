package model

import "time"

// AssetKind tells image uploads apart from video uploads. It decides the
// extension allow-list and whether an upload is compressed.
type AssetKind string

const (
	KindImage AssetKind = "image"
	KindVideo AssetKind = "video"
	KindAny   AssetKind = "" // image or video, used when the caller has no preference
)

// ParseAssetKind maps a form value onto a kind. Anything other than
// "video" is treated as an image, matching the column default.
func ParseAssetKind(s string) AssetKind {
	if s == string(KindVideo) {
		return KindVideo
	}
	return KindImage
}

// Banner is a homepage hero slide. Position fields are CSS offsets for the
// title block and the call-to-action button.
type Banner struct {
	ID                 uint64    `db:"id"`
	Title              string    `db:"title"`
	TitleHTML          string    `db:"title_html"`
	ImagePath          string    `db:"image_path"`
	Link               string    `db:"link"`
	ButtonText         string    `db:"button_text"`
	ButtonLink         string    `db:"button_link"`
	PositionTop        string    `db:"position_top"`
	PositionLeft       string    `db:"position_left"`
	ButtonPositionTop  string    `db:"button_position_top"`
	ButtonPositionLeft string    `db:"button_position_left"`
	Sort               int       `db:"sort"`
	CreatedAt          time.Time `db:"created_at"`
}

// Banner defaults applied when the admin form leaves a field blank.
const (
	DefaultButtonText         = "View More"
	DefaultPositionTop        = "50px"
	DefaultPositionLeft       = "50px"
	DefaultButtonPositionTop  = "100px"
	DefaultButtonPositionLeft = "50px"
)

// Product is a catalog entry. Price is kept as a decimal string
// ("12.50") so the DECIMAL(10,2) column round-trips without float error.
type Product struct {
	ID          uint64    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Detail      string    `db:"detail"`
	Price       string    `db:"price"`
	ImagePath   string    `db:"image_path"`
	Sort        int       `db:"sort"`
	CreatedAt   time.Time `db:"created_at"`
}

// FactoryAsset is a gallery item on the factory page.
type FactoryAsset struct {
	ID        uint64    `db:"id"`
	Title     string    `db:"title"`
	Type      AssetKind `db:"type"`
	FilePath  string    `db:"file_path"`
	Sort      int       `db:"sort"`
	CreatedAt time.Time `db:"created_at"`
}

// IsVideo reports whether the asset should be rendered with a video tag.
func (a FactoryAsset) IsVideo() bool { return a.Type == KindVideo }
