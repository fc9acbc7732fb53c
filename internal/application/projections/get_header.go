package projections

// HeaderResult is the navigation header read model.
type HeaderResult struct {
	FavoriteCount int // Stored IDs, stale ones included
}

// QueryHeader returns the favorites count shown next to "My Favorites".
func QueryHeader(favs FavoritesView) HeaderResult {
	return HeaderResult{FavoriteCount: favs.Len()}
}
