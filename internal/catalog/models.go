package catalog

// Product is read-only catalog data supplied by a Provider at startup.
// The descriptive fields are passed through for display; only price,
// category, rating and the text fields participate in core logic.
type Product struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Price           float64  `json:"price"`
	OriginalPrice   float64  `json:"originalPrice,omitempty"`
	DiscountPercent int      `json:"discount,omitempty"`
	Category        []string `json:"category"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewsCount"`
	Format          string   `json:"format,omitempty"`
	Pages           int      `json:"pages,omitempty"`
	Publisher       string   `json:"publisher,omitempty"`
	Language        string   `json:"language,omitempty"`
	Description     string   `json:"description,omitempty"`
	Bestseller      bool     `json:"bestseller,omitempty"`
}

// Review is a single reader review; Product.Rating and
// Product.ReviewCount are the provider-supplied aggregates.
type Review struct {
	ProductID string `json:"bookId"`
	User      string `json:"user"`
	Rating    int    `json:"rating"`
	Date      string `json:"date"`
	Text      string `json:"text"`
}

func (p Product) HasCategory(tag string) bool {
	for _, c := range p.Category {
		if c == tag {
			return true
		}
	}
	return false
}
