package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/wellywell/orderhub/internal/db"
	"github.com/wellywell/orderhub/internal/ingest"
	"github.com/wellywell/orderhub/internal/types"
)

// OrderStore is everything the handlers need from storage.
type OrderStore interface {
	UpsertOrders(ctx context.Context, orders []types.Order) error
	SearchOrders(ctx context.Context, filter types.OrderFilter) ([]types.OrderInfo, int, error)
	GetOrder(ctx context.Context, orderID string) (*types.OrderInfo, error)
	GetOrderStats(ctx context.Context) (*types.OrderStats, error)
}

type HandlerSet struct {
	database       OrderStore
	batchSize      int
	maxUploadBytes int64
}

func NewHandlerSet(database OrderStore, batchSize int, maxUploadBytes int64) *HandlerSet {
	return &HandlerSet{
		database:       database,
		batchSize:      batchSize,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUploadOrders streams a CSV upload through the ingestion
// pipeline. The file is consumed part by part, never fully in memory.
func (h *HandlerSet) HandleUploadOrders(w http.ResponseWriter, req *http.Request) {

	req.Body = http.MaxBytesReader(w, req.Body, h.maxUploadBytes)

	file, err := openUploadedFile(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	uploadID := uuid.New()
	processor := ingest.NewProcessor(h.database, h.batchSize)

	report, err := processor.Run(req.Context(), uploadID, file)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// client is gone, committed batches stay committed
			logger.WithField("upload_id", uploadID).Warn("Upload aborted by client")
			return
		}
		http.Error(w, fmt.Sprintf("Error processing CSV: %s", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, report)
}

func openUploadedFile(req *http.Request) (io.ReadCloser, error) {

	reader, err := req.MultipartReader()
	if err != nil {
		return nil, errors.New("multipart form with a 'file' field expected")
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("multipart form with a 'file' field expected")
		}
		if err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		if !strings.HasSuffix(strings.ToLower(part.FileName()), ".csv") {
			_ = part.Close()
			return nil, errors.New("file must be a CSV")
		}
		return part, nil
	}
}

func (h *HandlerSet) HandleGetOrders(w http.ResponseWriter, req *http.Request) {

	filter, err := parseOrderFilter(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orders, total, err := h.database.SearchOrders(req.Context(), *filter)
	if err != nil {
		logger.Error(err)
		http.Error(w, "Error getting data", http.StatusInternalServerError)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.PageSize - 1) / filter.PageSize
	}

	writeJSON(w, struct {
		Total      int               `json:"total"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		TotalPages int               `json:"total_pages"`
		Data       []types.OrderInfo `json:"data"`
	}{
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
		Data:       orders,
	})
}

func (h *HandlerSet) HandleGetOrder(w http.ResponseWriter, req *http.Request) {

	orderID := chi.URLParam(req, "orderID")

	order, err := h.database.GetOrder(req.Context(), orderID)
	if err != nil {
		var notFound *db.OrderNotFoundError
		if errors.As(err, &notFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		logger.Error(err)
		http.Error(w, "Error getting data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, order)
}

func (h *HandlerSet) HandleGetStats(w http.ResponseWriter, req *http.Request) {

	stats, err := h.database.GetOrderStats(req.Context())
	if err != nil {
		logger.Error(err)
		http.Error(w, "Error getting data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats)
}

func HandleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, value any) {
	response, err := json.Marshal(value)
	if err != nil {
		http.Error(w, "Could not serialize result",
			http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json")
	_, err = w.Write(response)
	if err != nil {
		http.Error(w, "Something went wrong",
			http.StatusInternalServerError)
	}
}
