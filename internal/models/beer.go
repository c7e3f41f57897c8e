package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BeerStyle is the enumerated style of a beer.
type BeerStyle string

const (
	BeerStyleLager   BeerStyle = "LAGER"
	BeerStylePilsner BeerStyle = "PILSNER"
	BeerStyleStout   BeerStyle = "STOUT"
	BeerStyleGose    BeerStyle = "GOSE"
	BeerStylePorter  BeerStyle = "PORTER"
	BeerStyleAle     BeerStyle = "ALE"
	BeerStyleWheat   BeerStyle = "WHEAT"
	BeerStyleIPA     BeerStyle = "IPA"
	BeerStylePaleAle BeerStyle = "PALE_ALE"
	BeerStyleSaison  BeerStyle = "SAISON"
)

var beerStyles = map[BeerStyle]struct{}{
	BeerStyleLager:   {},
	BeerStylePilsner: {},
	BeerStyleStout:   {},
	BeerStyleGose:    {},
	BeerStylePorter:  {},
	BeerStyleAle:     {},
	BeerStyleWheat:   {},
	BeerStyleIPA:     {},
	BeerStylePaleAle: {},
	BeerStyleSaison:  {},
}

// IsValid reports whether s is one of the known beer styles.
func (s BeerStyle) IsValid() bool {
	_, ok := beerStyles[s]
	return ok
}

// Beer is the persisted beer record.
type Beer struct {
	ID               uint            `gorm:"primaryKey"`
	BeerName         string          `gorm:"type:varchar(255);not null"`
	BeerStyle        BeerStyle       `gorm:"type:varchar(32);not null"`
	UPC              string          `gorm:"column:upc;type:varchar(32);not null;uniqueIndex"`
	Price            decimal.Decimal `gorm:"type:decimal(19,2)"`
	QuantityOnHand   int             `gorm:"not null;default:0"`
	CreatedDate      time.Time       `gorm:"not null"`
	LastModifiedDate time.Time       `gorm:"not null"`
}

// BeerDto is the outward JSON view of a beer and the shape of write payloads.
// QuantityOnHand is nil when inventory was not requested.
type BeerDto struct {
	ID              uint            `json:"id,omitempty"`
	BeerName        string          `json:"beerName" validate:"required,notblank,max=255"`
	BeerStyle       BeerStyle       `json:"beerStyle" validate:"required,beerstyle"`
	UPC             string          `json:"upc" validate:"required,notblank,max=32"`
	Price           decimal.Decimal `json:"price" validate:"gte=0"`
	QuantityOnHand  *int            `json:"quantityOnHand,omitempty" validate:"omitempty,gte=0"`
	CreatedDate     *time.Time      `json:"createdDate,omitempty"`
	LastUpdatedDate *time.Time      `json:"lastUpdatedDate,omitempty"`
}

// ToDto converts a stored beer to its JSON view.
func (b *Beer) ToDto(showInventory bool) BeerDto {
	created := b.CreatedDate
	updated := b.LastModifiedDate
	dto := BeerDto{
		ID:              b.ID,
		BeerName:        b.BeerName,
		BeerStyle:       b.BeerStyle,
		UPC:             b.UPC,
		Price:           b.Price,
		CreatedDate:     &created,
		LastUpdatedDate: &updated,
	}
	if showInventory {
		qoh := b.QuantityOnHand
		dto.QuantityOnHand = &qoh
	}
	return dto
}

// ApplyTo copies the mutable fields of a draft onto b. Identifier and timestamps are left alone.
// A nil quantity keeps the stored value.
func (d *BeerDto) ApplyTo(b *Beer) {
	b.BeerName = d.BeerName
	b.BeerStyle = d.BeerStyle
	b.UPC = d.UPC
	b.Price = d.Price
	if d.QuantityOnHand != nil {
		b.QuantityOnHand = *d.QuantityOnHand
	}
}
