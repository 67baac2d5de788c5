package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the identifier and timestamps every collection shares.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Touch assigns an id on first write and refreshes the timestamps.
func (b *Base) Touch(now time.Time) {
	now = now.UTC()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Ref is the inline expansion of a referenced document.
type Ref struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Code string             `json:"code,omitempty"`
}

// Referable documents can be summarised as a Ref.
type Referable interface {
	Summary() Ref
}

// RefMap indexes the summaries of docs by id.
func RefMap[T Referable](docs []T) map[primitive.ObjectID]Ref {
	out := make(map[primitive.ObjectID]Ref, len(docs))
	for _, d := range docs {
		r := d.Summary()
		out[r.ID] = r
	}
	return out
}

// LocationRefs links a document to the geographic hierarchy. The chain is
// advisory; nothing checks that the city belongs to the province.
type LocationRefs struct {
	ContinentID *primitive.ObjectID `bson:"continent,omitempty" json:"continent_id,omitempty"`
	CountryID   *primitive.ObjectID `bson:"country,omitempty" json:"country_id,omitempty"`
	ProvinceID  *primitive.ObjectID `bson:"province,omitempty" json:"province_id,omitempty"`
	CityID      *primitive.ObjectID `bson:"city,omitempty" json:"city_id,omitempty"`

	Continent *Ref `bson:"-" json:"continent,omitempty"`
	Country   *Ref `bson:"-" json:"country,omitempty"`
	Province  *Ref `bson:"-" json:"province,omitempty"`
	City      *Ref `bson:"-" json:"city,omitempty"`
}

// LocationInput is the request form of LocationRefs.
type LocationInput struct {
	Continent *string `json:"continent_id,omitempty"`
	Country   *string `json:"country_id,omitempty"`
	Province  *string `json:"province_id,omitempty"`
	City      *string `json:"city_id,omitempty"`
}

// Apply merges the supplied ids; an empty string clears the reference.
func (in LocationInput) Apply(l *LocationRefs) error {
	set := func(dst **primitive.ObjectID, v *string) error {
		if v == nil {
			return nil
		}
		if *v == "" {
			*dst = nil
			return nil
		}
		id, err := primitive.ObjectIDFromHex(*v)
		if err != nil {
			return err
		}
		*dst = &id
		return nil
	}
	for _, f := range []struct {
		dst **primitive.ObjectID
		v   *string
	}{
		{&l.ContinentID, in.Continent},
		{&l.CountryID, in.Country},
		{&l.ProvinceID, in.Province},
		{&l.CityID, in.City},
	} {
		if err := set(f.dst, f.v); err != nil {
			return err
		}
	}
	return nil
}

// ParseID parses a hex object id, reporting ok=false for malformed input.
func ParseID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	return id, err == nil
}
