package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintechbuddy/insights-api/services"
	"github.com/fintechbuddy/insights-api/utils"
)

type UploadHandler struct {
	Store *services.DatasetStore
}

// Upload accepts a transaction spreadsheet, normalizes it and replaces the
// stored dataset. On any failure the previously stored dataset is kept.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if !services.SupportedExtension(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Upload .xlsx, .xls, or .csv"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	table, err := services.ReadTable(fileHeader.Filename, data)
	if err != nil {
		respondProcessingError(c, err)
		return
	}

	txs, summary, err := services.Normalize(table)
	if err != nil {
		respondProcessingError(c, err)
		return
	}

	ds := h.Store.Replace(fileHeader.Filename, txs, summary)
	utils.SafeInfo("[Upload] Processed %s - dataset %s, %d rows", fileHeader.Filename, ds.ID, summary.Rows)

	c.JSON(http.StatusOK, gin.H{
		"message":    "File uploaded & processed successfully!",
		"dataset_id": ds.ID,
		"summary":    ds.Summary,
	})
}

func respondProcessingError(c *gin.Context, err error) {
	var inputErr *services.InputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Msg})
		return
	}
	utils.SafeError("[Upload] Processing failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed: " + err.Error()})
}
