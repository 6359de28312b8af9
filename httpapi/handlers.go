// Package httpapi exposes the marketplace over HTTP with gin.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"realtyflow/auth"
	"realtyflow/favorite"
	"realtyflow/inquiry"
	"realtyflow/property"
	"realtyflow/storage"
)

// HandlerSet bundles the services behind the route handlers.
type HandlerSet struct {
	log        zerolog.Logger
	auth       *auth.Service
	properties *property.Service
	inquiries  *inquiry.Service
	favorites  *favorite.Service
	images     storage.ImageStore
}

func NewHandlerSet(
	log zerolog.Logger,
	authService *auth.Service,
	propertyService *property.Service,
	inquiryService *inquiry.Service,
	favoriteService *favorite.Service,
	images storage.ImageStore,
) HandlerSet {
	return HandlerSet{
		log:        log,
		auth:       authService,
		properties: propertyService,
		inquiries:  inquiryService,
		favorites:  favoriteService,
		images:     images,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", h.RegisterUser)
	authGroup.POST("/login", h.Login)

	users := router.Group("/users")
	users.Use(RequireAuth(h.auth))
	users.GET("/profile", h.Profile)

	properties := router.Group("/properties")
	properties.GET("", h.ListProperties)
	properties.GET("/:id", h.GetProperty)

	propertiesAuth := router.Group("/properties")
	propertiesAuth.Use(RequireAuth(h.auth))
	propertiesAuth.POST("", h.CreateProperty)
	propertiesAuth.PATCH("/:id/status", h.UpdatePropertyStatus)

	favorites := router.Group("/favorites")
	favorites.Use(RequireAuth(h.auth))
	favorites.GET("", h.ListFavorites)
	favorites.POST("", h.AddFavorite)
	favorites.DELETE("/:propertyId", h.RemoveFavorite)
	favorites.GET("/check/:propertyId", h.CheckFavorite)

	inquiries := router.Group("/inquiries")
	inquiries.Use(RequireAuth(h.auth))
	inquiries.POST("", h.CreateInquiry)
	inquiries.GET("/my-inquiries", h.MyInquiries)
	inquiries.GET("/admin-inquiries", h.AdminInquiries)
	inquiries.GET("/seller-inquiries", h.SellerInquiries)
	inquiries.PATCH("/:id/status", h.UpdateInquiryStatus)
	inquiries.PATCH("/:id/respond", h.RespondInquiry)
	inquiries.PATCH("/:id/note", h.UpdateInquiryNote)
	inquiries.GET("/:id/events", h.InquiryEvents)
	inquiries.GET("/:id", h.GetInquiry)
}

func (h HandlerSet) Health(c *gin.Context) {
	respondData(c, 200, gin.H{"status": "ok"})
}
