package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtyflow/property"
	"realtyflow/storage"
)

const maxPropertyImages = 10

func (h HandlerSet) ListProperties(c *gin.Context) {
	filters := property.Filters{
		Status:          property.Status(c.Query("status")),
		SellerID:        c.Query("seller_id"),
		City:            c.Query("city"),
		PropertyType:    property.PropertyType(c.Query("property_type")),
		TransactionType: property.TransactionType(c.Query("transaction_type")),
	}
	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid min_price")
			return
		}
		filters.MinPrice = &minPrice
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid max_price")
			return
		}
		filters.MaxPrice = &maxPrice
	}

	properties, err := h.properties.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newPropertyViews(properties))
}

func (h HandlerSet) GetProperty(c *gin.Context) {
	prop, err := h.properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newPropertyView(prop))
}

// CreateProperty accepts a multipart form: scalar listing fields, nested
// structures as JSON-encoded strings, up to 10 files under "propertyImages"
// and optional per-file "imageMetadata".
func (h HandlerSet) CreateProperty(c *gin.Context) {
	userID, role := currentUser(c)
	if role != "seller" {
		respondError(c, http.StatusForbidden, "Access denied")
		return
	}

	raw := property.RawPayload{
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		PropertyType:    c.PostForm("property_type"),
		TransactionType: c.PostForm("transaction_type"),
		Price:           c.PostForm("price"),
		Currency:        c.PostForm("currency"),
		Address:         c.PostForm("address"),
		Details:         c.PostForm("details"),
		Features:        c.PostForm("features"),
		Amenities:       c.PostForm("amenities"),
		ImageMetadata:   c.PostForm("imageMetadata"),
	}

	params, metadata, err := raw.Parse()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	params.SellerID = userID
	params.SellerRole = role

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := form.File["propertyImages"]
	if len(files) > maxPropertyImages {
		respondError(c, http.StatusBadRequest, "too many images")
		return
	}

	urls := make([]string, 0, len(files))
	names := make([]string, 0, len(files))
	discardUploads := func() {
		for _, name := range names {
			if err := h.images.Remove(c.Request.Context(), name); err != nil {
				h.log.Warn().Err(err).Str("object", name).Msg("orphaned upload cleanup failed")
			}
		}
	}
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			discardUploads()
			respondError(c, http.StatusBadRequest, "unreadable upload")
			return
		}

		name := storage.NewObjectName(file.Filename)
		url, err := h.images.Save(c.Request.Context(), name, file.Header.Get("Content-Type"), src, file.Size)
		src.Close()
		if err != nil {
			h.log.Error().Err(err).Str("filename", file.Filename).Msg("image upload failed")
			discardUploads()
			respondError(c, http.StatusInternalServerError, "image upload failed")
			return
		}
		urls = append(urls, url)
		names = append(names, name)
	}

	params.Images = property.BuildImages(urls, metadata)

	prop, err := h.properties.Create(c.Request.Context(), params)
	if err != nil {
		discardUploads()
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, newPropertyView(prop))
}

func (h HandlerSet) UpdatePropertyStatus(c *gin.Context) {
	userID, role := currentUser(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	prop, err := h.properties.UpdateStatus(c.Request.Context(), userID, role, c.Param("id"), property.Status(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, newPropertyView(prop))
}
