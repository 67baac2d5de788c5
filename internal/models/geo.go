package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// GeoNode is implemented by every level of the geographic hierarchy
// (continent → country → province → city).
type GeoNode interface {
	Referable
	ParentID() primitive.ObjectID
}

// GeoPatch carries the editable fields shared by all levels.
type GeoPatch struct {
	Name     *string
	Code     *string
	Parent   *primitive.ObjectID
	IsActive *bool
}

type Continent struct {
	Base `bson:",inline"`

	Name     string `bson:"name" json:"name" validate:"required,max=100"`
	Code     string `bson:"code" json:"code" validate:"required,max=8"`
	IsActive bool   `bson:"is_active" json:"is_active"`
}

func (c Continent) Summary() Ref                 { return Ref{ID: c.ID, Name: c.Name, Code: c.Code} }
func (c Continent) ParentID() primitive.ObjectID { return primitive.NilObjectID }
func (c *Continent) SetParent(*Ref)              {}

func (c *Continent) ApplyGeo(p GeoPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

type Country struct {
	Base `bson:",inline"`

	Name        string             `bson:"name" json:"name" validate:"required,max=100"`
	Code        string             `bson:"code" json:"code" validate:"required,max=8"`
	ContinentID primitive.ObjectID `bson:"continent" json:"continent_id" validate:"required"`
	IsActive    bool               `bson:"is_active" json:"is_active"`

	Continent *Ref `bson:"-" json:"continent,omitempty"`
}

func (c Country) Summary() Ref                 { return Ref{ID: c.ID, Name: c.Name, Code: c.Code} }
func (c Country) ParentID() primitive.ObjectID { return c.ContinentID }
func (c *Country) SetParent(r *Ref)            { c.Continent = r }

func (c *Country) ApplyGeo(p GeoPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.Parent != nil {
		c.ContinentID = *p.Parent
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

type Province struct {
	Base `bson:",inline"`

	Name      string             `bson:"name" json:"name" validate:"required,max=100"`
	CountryID primitive.ObjectID `bson:"country" json:"country_id" validate:"required"`
	IsActive  bool               `bson:"is_active" json:"is_active"`

	Country *Ref `bson:"-" json:"country,omitempty"`
}

func (p Province) Summary() Ref                 { return Ref{ID: p.ID, Name: p.Name} }
func (p Province) ParentID() primitive.ObjectID { return p.CountryID }
func (p *Province) SetParent(r *Ref)            { p.Country = r }

func (p *Province) ApplyGeo(g GeoPatch) {
	if g.Name != nil {
		p.Name = *g.Name
	}
	if g.Parent != nil {
		p.CountryID = *g.Parent
	}
	if g.IsActive != nil {
		p.IsActive = *g.IsActive
	}
}

type City struct {
	Base `bson:",inline"`

	Name       string             `bson:"name" json:"name" validate:"required,max=100"`
	ProvinceID primitive.ObjectID `bson:"province" json:"province_id" validate:"required"`
	IsActive   bool               `bson:"is_active" json:"is_active"`

	Province *Ref `bson:"-" json:"province,omitempty"`
}

func (c City) Summary() Ref                 { return Ref{ID: c.ID, Name: c.Name} }
func (c City) ParentID() primitive.ObjectID { return c.ProvinceID }
func (c *City) SetParent(r *Ref)            { c.Province = r }

func (c *City) ApplyGeo(p GeoPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Parent != nil {
		c.ProvinceID = *p.Parent
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}
