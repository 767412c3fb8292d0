package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bizboost/api/internal/models"
)

type businessResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	ShortDescription string                `json:"shortDescription"`
	LongDescription  string                `json:"longDescription"`
	Categories       []string              `json:"categories"`
	OwnerName        string                `json:"ownerName"`
	ContactPhone     string                `json:"contactPhone"`
	ContactEmail     string                `json:"contactEmail"`
	WebsiteURL       string                `json:"websiteUrl"`
	Address          string                `json:"address"`
	Timetable        []models.TimetableDay `json:"timetable"`
	Deals            []models.Deal         `json:"deals"`
	BannerImageURL   string                `json:"bannerImageUrl"`
	LogoImageURL     string                `json:"logoImageUrl"`
	AvgRating        float64               `json:"avgRating"`
	ReviewCount      int                   `json:"reviewCount"`
	FavouritesCount  int                   `json:"favouritesCount"`
	CreatedAt        time.Time             `json:"createdAt"`
}

func toBusinessResponse(b models.Business) businessResponse {
	return businessResponse{
		ID:               b.ID,
		Name:             b.Name,
		ShortDescription: b.ShortDescription,
		LongDescription:  b.LongDescription,
		Categories:       b.Categories,
		OwnerName:        b.OwnerName,
		ContactPhone:     b.ContactPhone,
		ContactEmail:     b.ContactEmail,
		WebsiteURL:       b.WebsiteURL,
		Address:          b.Address,
		Timetable:        b.Timetable,
		Deals:            b.Deals,
		BannerImageURL:   b.BannerImageURL,
		LogoImageURL:     b.LogoImageURL,
		AvgRating:        b.AvgRating,
		ReviewCount:      b.ReviewCount,
		FavouritesCount:  b.FavouritesCount,
		CreatedAt:        b.CreatedAt,
	}
}

// ListBusinesses returns all businesses, or the subset named by the
// comma-separated ids query in the requested order (used by the favourites
// page).
func (h HandlerSet) ListBusinesses(c *gin.Context) {
	var ids []string
	if raw := c.Query("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	businesses, err := h.businesses.List(c.Request.Context(), ids)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]businessResponse, 0, len(businesses))
	for _, b := range businesses {
		resp = append(resp, toBusinessResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) GetBusiness(c *gin.Context) {
	business, err := h.businesses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBusinessResponse(business))
}

// UploadBusinessImage accepts a multipart banner or logo image for a
// business and returns the stored URL.
func (h HandlerSet) UploadBusinessImage(c *gin.Context) {
	slot := c.DefaultPostForm("slot", "logo")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.businesses.UploadImage(c.Request.Context(), c.Param("id"), slot, file, fileHeader.Size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

type categoryResponse struct {
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	values := make([]string, 0, len(models.Categories))
	for value := range models.Categories {
		values = append(values, value)
	}
	sort.Strings(values)

	resp := make([]categoryResponse, 0, len(values))
	for _, value := range values {
		resp = append(resp, categoryResponse{Value: value, Icon: models.Categories[value]})
	}
	c.JSON(http.StatusOK, resp)
}
