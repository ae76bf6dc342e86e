package types

type Asset struct {
	Id     int    `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}
