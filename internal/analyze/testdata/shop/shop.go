package shop

import "time"

type Status string

type Order struct {
	OrderID  int               `adapter:",required"`
	Customer *Customer         `adapter:"buyer"`
	Items    []Item            `adapter:"items"`
	Labels   map[string]string `adapter:",default=map[string]string{}"`
	Status   Status
	PlacedAt time.Time
	Cache    []byte `adapter:"-"`
	internal int
}

type Item struct {
	SKU   string
	Count int `adapter:"count,required,default=1"`
}

type Customer struct {
	Name   string
	Orders []*Order
}

type Signal struct {
	Done chan struct{}
}

type empty struct{}

type Marker struct {
	empty
}
