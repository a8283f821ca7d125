package kv

const (
	// Cart line items: storefront:cart -> [{product_id, unit_price, quantity}]
	KeyCart = "storefront:cart"

	// Favorite product ids: storefront:favorites -> ["bk-001", ...]
	KeyFavorites = "storefront:favorites"

	// Order history, append-only: storefront:orders -> [Order]
	KeyOrders = "storefront:orders"
)
