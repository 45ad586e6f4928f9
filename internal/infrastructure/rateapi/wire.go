package rateapi

import (
	"strconv"

	"github.com/parcelworks/label-service/internal/domain"
)

// Wire types for the rate aggregation API. Monetary amounts travel as
// strings on the wire.

type wireAddress struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

func toWireAddress(a domain.Address) wireAddress {
	return wireAddress{
		Name:    a.Name,
		Company: a.Company,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

func (w wireAddress) toDomain() domain.Address {
	return domain.Address{
		Name:    w.Name,
		Company: w.Company,
		Street1: w.Street1,
		Street2: w.Street2,
		City:    w.City,
		State:   w.State,
		Zip:     w.Zip,
		Country: w.Country,
		Phone:   w.Phone,
		Email:   w.Email,
	}
}

type wireRate struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	Rate         string `json:"rate"`
	Currency     string `json:"currency"`
	DeliveryDays int    `json:"delivery_days"`
}

func (w wireRate) amount() float64 {
	v, err := strconv.ParseFloat(w.Rate, 64)
	if err != nil {
		return 0
	}
	return v
}

func (w wireRate) toDomain() domain.Rate {
	return domain.Rate{
		ID:           w.ID,
		Carrier:      w.Carrier,
		Service:      w.Service,
		Amount:       w.amount(),
		Currency:     w.Currency,
		DeliveryDays: w.DeliveryDays,
	}
}

type wireShipment struct {
	ID    string     `json:"id"`
	Rates []wireRate `json:"rates"`
}

type wireBoughtShipment struct {
	ID           string   `json:"id"`
	TrackingCode string   `json:"tracking_code"`
	SelectedRate wireRate `json:"selected_rate"`
	PostageLabel struct {
		LabelURL string `json:"label_url"`
	} `json:"postage_label"`
}
