package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	listingapp "staybook/internal/app/handlers/listings"
	"staybook/internal/app/queries"
	"staybook/internal/domain/shared/apperr"
)

// ListingHandler wires the listing directory to HTTP.
type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

// Search responds with a plain array of matching listings.
func (h ListingHandler) Search(c *gin.Context) {
	query, err := searchQueryFrom(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	result, err := queries.Ask[listingapp.SearchCatalogQuery, *dto.ListingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result.Items)
}

func searchQueryFrom(c *gin.Context) (listingapp.SearchCatalogQuery, error) {
	q := listingapp.SearchCatalogQuery{Location: c.Query("location")}
	var err error
	if q.MinPrice, err = parseOptionalFloat("minPrice", c.Query("minPrice")); err != nil {
		return q, err
	}
	if q.MaxPrice, err = parseOptionalFloat("maxPrice", c.Query("maxPrice")); err != nil {
		return q, err
	}
	if q.CheckIn, err = parseDate("checkInDate", c.Query("checkInDate")); err != nil {
		return q, err
	}
	if q.CheckOut, err = parseDate("checkOutDate", c.Query("checkOutDate")); err != nil {
		return q, err
	}
	return q, nil
}

func (h ListingHandler) Get(c *gin.Context) {
	result, err := queries.Ask[listingapp.GetListingQuery, *dto.Listing](c.Request.Context(), h.Queries, listingapp.GetListingQuery{ListingID: c.Param("id")})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Create(c *gin.Context) {
	var cmd listingapp.CreateListingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, h.Logger, errInvalidBody)
		return
	}
	cmd.Principal = currentPrincipal(c)
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ListingHandler) Update(c *gin.Context) {
	var cmd listingapp.UpdateListingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, h.Logger, errInvalidBody)
		return
	}
	cmd.Principal = currentPrincipal(c)
	cmd.ListingID = c.Param("id")
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Delete(c *gin.Context) {
	cmd := listingapp.DeleteListingCommand{Principal: currentPrincipal(c), ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingapp.DeleteListingCommand, *listingapp.DeleteListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddImage accepts a multipart upload in the "image" field.
func (h ListingHandler) AddImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		writeError(c, h.Logger, apperr.Validation("image file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer file.Close()

	cmd := listingapp.AddListingImageCommand{
		Principal:   currentPrincipal(c),
		ListingID:   c.Param("id"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
	result, err := commands.Dispatch[listingapp.AddListingImageCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ ListingHTTP = ListingHandler{}
