package response_models

// CatalogDestination is the full catalog record as served by the destinations
// API and consumed by the enrichment step. The core only reads it.
type CatalogDestination struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Categories  []string `json:"categories"`
	ImageURL    string   `json:"image_url"`
}
