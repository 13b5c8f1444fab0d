// Package client is a Go client for the RepairRight API and the booking flow built on
// it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repairright/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTimeout bounds every call made by a client built with New and a zero timeout.
const DefaultTimeout = 15 * time.Second

// ErrNetwork wraps transport failures: the request never produced an HTTP response.
var ErrNetwork = errors.New("network failure")

// APIError is a non-2xx reply from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// HasCode reports whether err is an *APIError with the given code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type CreateBookingResult struct {
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type StatusUpdateResult struct {
	UpdateResult
	Booking models.BookingView `json:"booking"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// APIClient calls the RepairRight API. Authenticated calls take the caller's bearer
// token.
type APIClient struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL whose calls time out after timeout.
func New(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", ErrNetwork, method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *APIClient) CheckExistingBooking(ctx context.Context, token, serviceID, userEmail string) (models.BookingCheck, error) {
	var out models.BookingCheck
	path := "/bookings/check/" + url.PathEscape(serviceID) + "/" + url.PathEscape(userEmail)
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

func (c *APIClient) CreateBooking(ctx context.Context, token string, req models.BookingRequest) (CreateBookingResult, error) {
	var out CreateBookingResult
	err := c.do(ctx, http.MethodPost, "/bookings", token, req, &out)
	return out, err
}

func (c *APIClient) GetBooking(ctx context.Context, token, bookingID string) (models.BookingView, error) {
	var out models.BookingView
	err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(bookingID), token, nil, &out)
	return out, err
}

func (c *APIClient) BookingEvents(ctx context.Context, token, bookingID string) ([]models.BookingEvent, error) {
	var out []models.BookingEvent
	err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(bookingID)+"/events", token, nil, &out)
	return out, err
}

func (c *APIClient) MyBookings(ctx context.Context, token string) ([]models.BookingView, error) {
	var out []models.BookingView
	err := c.do(ctx, http.MethodGet, "/my-bookings", token, nil, &out)
	return out, err
}

func (c *APIClient) ServiceToDo(ctx context.Context, token string) ([]models.BookingView, error) {
	var out []models.BookingView
	err := c.do(ctx, http.MethodGet, "/service-to-do", token, nil, &out)
	return out, err
}

func (c *APIClient) UpdateBookingStatus(ctx context.Context, token, bookingID string, status models.BookingStatus) (StatusUpdateResult, error) {
	var out StatusUpdateResult
	path := "/bookings/" + url.PathEscape(bookingID) + "/status"
	err := c.do(ctx, http.MethodPatch, path, token, models.StatusUpdateRequest{ServiceStatus: status}, &out)
	return out, err
}

func (c *APIClient) ListServices(ctx context.Context, query models.ServiceQuery) ([]models.Service, error) {
	q := url.Values{}
	if query.Search != "" {
		q.Set("search", query.Search)
	}
	if query.Sort != "" {
		q.Set("sort", query.Sort)
	}
	path := "/services"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Service
	err := c.do(ctx, http.MethodGet, path, "", nil, &out)
	return out, err
}

func (c *APIClient) GetService(ctx context.Context, id string) (models.Service, error) {
	var out models.Service
	err := c.do(ctx, http.MethodGet, "/services/"+url.PathEscape(id), "", nil, &out)
	return out, err
}

func (c *APIClient) CreateService(ctx context.Context, token string, in models.ServiceInput) (InsertResult, error) {
	var out InsertResult
	err := c.do(ctx, http.MethodPost, "/services", token, in, &out)
	return out, err
}

func (c *APIClient) MyServices(ctx context.Context, token string) ([]models.Service, error) {
	var out []models.Service
	err := c.do(ctx, http.MethodGet, "/my-services", token, nil, &out)
	return out, err
}

func (c *APIClient) UpdateService(ctx context.Context, token, id string, update models.ServiceUpdate) (UpdateResult, error) {
	var out UpdateResult
	err := c.do(ctx, http.MethodPut, "/services/"+url.PathEscape(id), token, update, &out)
	return out, err
}

func (c *APIClient) DeleteService(ctx context.Context, token, id string) (DeleteResult, error) {
	var out DeleteResult
	err := c.do(ctx, http.MethodDelete, "/services/"+url.PathEscape(id), token, nil, &out)
	return out, err
}
