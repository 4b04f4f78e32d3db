package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// formFile reads the "file" part of a multipart request, writing a 400 or 413 on failure
func formFile(c *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return nil, nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return nil, nil, false
	}
	return header, f, true
}
