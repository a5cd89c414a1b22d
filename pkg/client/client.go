// Package client is a Go client for the medbook REST API. It decodes the
// `{success, ...}` response envelope into typed results so callers never
// probe raw JSON for missing fields.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// RemoteError is a logical failure reported by the backend with
// success=false. The message is suitable for operator display.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status %d)", e.StatusCode)
	}
	return e.Message
}

// Appointment is the wire representation of an appointment.
type Appointment struct {
	ID            string  `json:"id"`
	DoctorID      string  `json:"doctor_id"`
	PatientID     string  `json:"patient_id"`
	WorkDate      string  `json:"work_date"`
	WorkShift     string  `json:"work_shift"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Reason        *string `json:"reason,omitempty"`
	PatientName   string  `json:"patient_name,omitempty"`
	DoctorName    string  `json:"doctor_name,omitempty"`
}

// Doctor is the wire representation of a doctor.
type Doctor struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Active    bool    `json:"active"`
}

// AdminUpdate is the payload for the admin appointment update.
type AdminUpdate struct {
	WorkDate  string `json:"work_date"`
	WorkShift string `json:"work_shift"`
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Status    string `json:"status"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the backend response shape. Payload keys vary per
// endpoint so they are decoded lazily.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Doctors json.RawMessage `json:"doctors"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

// FindAppointment fetches a single appointment by id.
func (c *Client) FindAppointment(ctx context.Context, id string) (*Appointment, error) {
	env, err := c.do(ctx, http.MethodGet, "/appointment/find/"+id, nil)
	if err != nil {
		return nil, err
	}
	var a Appointment
	if err := json.Unmarshal(env.Data, &a); err != nil {
		return nil, fmt.Errorf("decode appointment: %w", err)
	}
	return &a, nil
}

// FindAllDoctors fetches the doctor directory.
func (c *Client) FindAllDoctors(ctx context.Context) ([]Doctor, error) {
	env, err := c.do(ctx, http.MethodGet, "/doctor/find-all", nil)
	if err != nil {
		return nil, err
	}
	var doctors []Doctor
	if err := json.Unmarshal(env.Doctors, &doctors); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	return doctors, nil
}

// AdminUpdateAppointment rewrites an appointment's fields.
func (c *Client) AdminUpdateAppointment(ctx context.Context, id string, update AdminUpdate) error {
	_, err := c.do(ctx, http.MethodPut, "/appointment/admin-update/"+id, update)
	return err
}

// ConfirmedAppointments fetches the confirmed appointments for a doctor's
// session (date and shift).
func (c *Client) ConfirmedAppointments(ctx context.Context, doctorID, workDate, workShift string) ([]Appointment, error) {
	body := map[string]string{"work_date": workDate, "work_shift": workShift}
	env, err := c.do(ctx, http.MethodPost, "/doctor/appointment-confirm/"+doctorID, body)
	if err != nil {
		return nil, err
	}
	var appts []Appointment
	if err := json.Unmarshal(env.Data, &appts); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appts, nil
}

// CompleteAppointment transitions a confirmed appointment to completed.
func (c *Client) CompleteAppointment(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, "/doctor/complete-appointment/"+id, nil)
	return err
}
