package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/shopspring/decimal"
)

// envelope is the shape shared by the search and lookup endpoints.
type envelope struct {
	ResultCount int         `json:"resultCount"`
	Results     []rawResult `json:"results"`
}

type rawResult struct {
	WrapperType           string              `json:"wrapperType"`
	Kind                  string              `json:"kind"`
	TrackID               int64               `json:"trackId"`
	TrackName             string              `json:"trackName"`
	ArtistName            string              `json:"artistName"`
	SellerName            string              `json:"sellerName"`
	Price                 decimal.NullDecimal `json:"price"`
	Currency              string              `json:"currency"`
	FormattedPrice        string              `json:"formattedPrice"`
	BundleID              string              `json:"bundleId"`
	PrimaryGenreName      string              `json:"primaryGenreName"`
	Version               string              `json:"version"`
	FileSizeBytes         string              `json:"fileSizeBytes"`
	AverageUserRating     float64             `json:"averageUserRating"`
	UserRatingCount       int64               `json:"userRatingCount"`
	ContentAdvisoryRating string              `json:"contentAdvisoryRating"`
	ReleaseDate           string              `json:"releaseDate"`
	Description           string              `json:"description"`
	ScreenshotURLs        []string            `json:"screenshotUrls"`
	SupportedDevices      []string            `json:"supportedDevices"`
	ArtworkURL512         string              `json:"artworkUrl512"`
	ArtworkURL100         string              `json:"artworkUrl100"`
	TrackViewURL          string              `json:"trackViewUrl"`
}

// toItem maps a raw record. A missing or null price means free; a negative
// one is an invalid response.
func (r rawResult) toItem() (domain.CatalogItem, error) {
	price := decimal.Zero
	if r.Price.Valid {
		price = r.Price.Decimal
	}
	if price.IsNegative() {
		return domain.CatalogItem{}, fmt.Errorf("%w: track %d has negative price %s", ErrInvalidResponse, r.TrackID, price)
	}
	developer := r.ArtistName
	if developer == "" {
		developer = r.SellerName
	}
	icon := r.ArtworkURL512
	if icon == "" {
		icon = r.ArtworkURL100
	}
	item := domain.CatalogItem{
		ID:             r.TrackID,
		Name:           r.TrackName,
		Developer:      developer,
		Price:          price,
		Currency:       r.Currency,
		FormattedPrice: r.FormattedPrice,
		IconURL:        icon,
		StoreURL:       r.TrackViewURL,
		BundleID:       r.BundleID,
		Category:       r.PrimaryGenreName,
		Version:        r.Version,
		Rating:         r.AverageUserRating,
		RatingCount:    r.UserRatingCount,
		ContentRating:  r.ContentAdvisoryRating,
		Description:    r.Description,
		Screenshots:    r.ScreenshotURLs,
		Devices:        r.SupportedDevices,
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(r.FileSizeBytes), 10, 64); err == nil {
		item.SizeBytes = n
	}
	if t, err := time.Parse(time.RFC3339, r.ReleaseDate); err == nil {
		item.ReleaseDate = t.UTC()
	}
	return item, nil
}

// isSoftware filters out non-app records the search endpoint sometimes mixes in.
func (r rawResult) isSoftware() bool {
	if r.TrackID <= 0 {
		return false
	}
	return r.Kind == "" || r.Kind == "software" || r.Kind == "mac-software" || r.WrapperType == "software"
}
