package utils

import (
	"fmt"
	"net/url"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
)

// ShareContent is a ready-to-post caption plus per-platform share URLs for a
// property listing.
type ShareContent struct {
	Caption     string            `json:"caption"`
	PropertyURL string            `json:"propertyUrl"`
	Links       map[string]string `json:"links"`
}

// BuildShareContent assembles share links for the major platforms. baseURL is
// the public frontend origin, e.g. https://nestery.com.
func BuildShareContent(property *models.Property, baseURL string) ShareContent {
	propertyURL := fmt.Sprintf("%s/properties/%d", baseURL, property.ID)
	caption := fmt.Sprintf("Stay at %s in %s from %.2f %s per night on Nestery!",
		property.Name, property.City, property.BasePrice, property.Currency)

	encodedURL := url.QueryEscape(propertyURL)
	encodedCaption := url.QueryEscape(caption)

	return ShareContent{
		Caption:     caption,
		PropertyURL: propertyURL,
		Links: map[string]string{
			"facebook": "https://www.facebook.com/sharer/sharer.php?u=" + encodedURL,
			"twitter":  "https://twitter.com/intent/tweet?text=" + encodedCaption + "&url=" + encodedURL,
			"whatsapp": "https://wa.me/?text=" + encodedCaption + "%20" + encodedURL,
		},
	}
}
