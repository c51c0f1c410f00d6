package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Login signs in and stores the returned token and user in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	if c.Session == nil {
		c.Session = &Session{}
	}
	user := out.User
	c.Session.Set(out.Token, &user)
	return &out, nil
}

// Logout forgets the session locally. Tokens are stateless on the server.
func (c *Client) Logout() {
	if c.Session != nil {
		c.Session.Clear()
	}
}

// Me returns the signed-in user and the sections its role may open.
func (c *Client) Me(ctx context.Context) (*MeResult, error) {
	var out MeResult
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh swaps the session token for a fresh one.
func (c *Client) Refresh(ctx context.Context) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, nil, &out); err != nil {
		return err
	}
	if c.Session == nil {
		c.Session = &Session{}
	}
	c.Session.Set(out.Token, c.Session.User())
	return nil
}

// BienFilter narrows ListBiens. Empty fields are ignored.
type BienFilter struct {
	Status string
	Type   string
}

func (c *Client) ListBiens(ctx context.Context, f BienFilter) ([]Bien, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	var out []Bien
	err := c.do(ctx, http.MethodGet, "/biens", q, nil, &out)
	return out, err
}

func (c *Client) GetBien(ctx context.Context, id uint) (*Bien, error) {
	var out Bien
	if err := c.do(ctx, http.MethodGet, idPath("biens", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBien(ctx context.Context, in BienInput) (uint, error) {
	return c.create(ctx, "biens", in)
}

func (c *Client) UpdateBien(ctx context.Context, id uint, in BienInput) error {
	return c.do(ctx, http.MethodPut, idPath("biens", id), nil, in, nil)
}

func (c *Client) DeleteBien(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("biens", id), nil, nil, nil)
}

// LocationFilter narrows ListLocations. Empty fields are ignored.
type LocationFilter struct {
	Status string
	BienID uint
}

func (c *Client) ListLocations(ctx context.Context, f LocationFilter) ([]Location, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.BienID != 0 {
		q.Set("bienId", strconv.FormatUint(uint64(f.BienID), 10))
	}
	var out []Location
	err := c.do(ctx, http.MethodGet, "/locations", q, nil, &out)
	return out, err
}

func (c *Client) GetLocation(ctx context.Context, id uint) (*Location, error) {
	var out Location
	if err := c.do(ctx, http.MethodGet, idPath("locations", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLocation(ctx context.Context, in LocationInput) (uint, error) {
	return c.create(ctx, "locations", in)
}

// UpdateLocation replaces a rental. in.Status is required and in.BienID is
// ignored.
func (c *Client) UpdateLocation(ctx context.Context, id uint, in LocationInput) error {
	return c.do(ctx, http.MethodPut, idPath("locations", id), nil, in, nil)
}

func (c *Client) DeleteLocation(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("locations", id), nil, nil, nil)
}

func (c *Client) ListVentes(ctx context.Context) ([]Vente, error) {
	var out []Vente
	err := c.do(ctx, http.MethodGet, "/ventes", nil, nil, &out)
	return out, err
}

func (c *Client) GetVente(ctx context.Context, id uint) (*Vente, error) {
	var out Vente
	if err := c.do(ctx, http.MethodGet, idPath("ventes", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateVente(ctx context.Context, in VenteInput) (uint, error) {
	return c.create(ctx, "ventes", in)
}

// PaiementFilter narrows ListPaiements. Empty fields are ignored.
type PaiementFilter struct {
	LocationID uint
	Status     string
}

func (c *Client) ListPaiements(ctx context.Context, f PaiementFilter) ([]Paiement, error) {
	q := url.Values{}
	if f.LocationID != 0 {
		q.Set("locationId", strconv.FormatUint(uint64(f.LocationID), 10))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	var out []Paiement
	err := c.do(ctx, http.MethodGet, "/paiements", q, nil, &out)
	return out, err
}

func (c *Client) GetPaiement(ctx context.Context, id uint) (*Paiement, error) {
	var out Paiement
	if err := c.do(ctx, http.MethodGet, idPath("paiements", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePaiement(ctx context.Context, in PaiementInput) (uint, error) {
	return c.create(ctx, "paiements", in)
}

func (c *Client) UpdatePaiement(ctx context.Context, id uint, in PaiementUpdate) error {
	return c.do(ctx, http.MethodPut, idPath("paiements", id), nil, in, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id uint) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, idPath("users", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (uint, error) {
	return c.create(ctx, "users", in)
}

func (c *Client) UpdateUser(ctx context.Context, id uint, in UserInput) error {
	return c.do(ctx, http.MethodPut, idPath("users", id), nil, in, nil)
}

func (c *Client) ToggleUserActive(ctx context.Context, id uint) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPatch, idPath("users", id)+"/toggle-active", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetUserRole(ctx context.Context, id uint, role string) (*User, error) {
	var out User
	body := map[string]string{"role": role}
	if err := c.do(ctx, http.MethodPatch, idPath("users", id)+"/role", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuditFilter narrows AuditLogs. Zero fields are ignored.
type AuditFilter struct {
	EntityType string
	EntityID   uint
	Limit      int
}

func (c *Client) AuditLogs(ctx context.Context, f AuditFilter) ([]AuditLog, error) {
	q := url.Values{}
	if f.EntityType != "" {
		q.Set("entityType", f.EntityType)
	}
	if f.EntityID != 0 {
		q.Set("entityId", strconv.FormatUint(uint64(f.EntityID), 10))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var out []AuditLog
	err := c.do(ctx, http.MethodGet, "/audit", q, nil, &out)
	return out, err
}
