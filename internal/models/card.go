package models

// Card is a catalog entry as returned by search. Name is the identity and is
// compared case-sensitively, exactly as the backend returns it.
type Card struct {
	Name   string `json:"name"`
	Set    string `json:"set"`
	Rarity string `json:"rarity"`
}

type CardSearchResult struct {
	Query   string `json:"query"`
	Results []Card `json:"results"`
}
