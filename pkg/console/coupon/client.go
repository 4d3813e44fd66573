package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource 提供 Bearer 凭证，由调用方注入
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken 固定凭证
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("empty bearer token")
	}
	return string(t), nil
}

// Config 客户端配置
type Config struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials TokenSource
	// DeleteMethod 为空或 GET 时调用旧接口 GET deleteCoupon?id，
	// DELETE 时调用 DELETE coupons/:id
	DeleteMethod string
	Logger       *zap.Logger
	// Now 用于提交前的过期校验，默认 time.Now
	Now func() time.Time
}

// Page 列表分页结果
type Page struct {
	Items      []Coupon
	TotalPages int
	TotalItems int
}

// Client 优惠券接口客户端
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	creds        TokenSource
	deleteMethod string
	log          *zap.Logger
	now          func() time.Time
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("credentials are required")
	}

	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		baseURL:      u,
		http:         cfg.HTTPClient,
		creds:        cfg.Credentials,
		deleteMethod: strings.ToUpper(cfg.DeleteMethod),
		log:          cfg.Logger,
		now:          cfg.Now,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.deleteMethod == "" {
		c.deleteMethod = http.MethodGet
	}
	return c, nil
}

type listResponse struct {
	Success    bool     `json:"success"`
	Coupons    []Coupon `json:"coupons"`
	TotalPages int      `json:"totalPages"`
	TotalItems int      `json:"totalItems"`
}

type couponResponse struct {
	Success bool   `json:"success"`
	Coupon  Coupon `json:"coupon"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type usersResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// List 分页查询，过滤与分页由服务端完成
func (c *Client) List(ctx context.Context, page, pageSize int, search string) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("search", search)

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "getAllCoupons", q, nil, &resp); err != nil {
		return Page{}, err
	}
	if resp.Coupons == nil {
		resp.Coupons = []Coupon{}
	}
	return Page{Items: resp.Coupons, TotalPages: resp.TotalPages, TotalItems: resp.TotalItems}, nil
}

// GetByID 获取单个优惠券
func (c *Client) GetByID(ctx context.Context, id string) (*Coupon, error) {
	q := url.Values{}
	q.Set("id", id)

	var resp couponResponse
	if err := c.do(ctx, http.MethodGet, "getCouponById", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Coupon, nil
}

// Create 校验通过后创建优惠券，返回服务端分配的 id
func (c *Client) Create(ctx context.Context, d Draft) (string, error) {
	if errs := Validate(d, c.now()); len(errs) > 0 {
		return "", &ValidationError{Fields: errs}
	}

	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "createCoupon", nil, PayloadFromDraft(d), &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Update 全量更新，所有可编辑字段都会重新发送
func (c *Client) Update(ctx context.Context, id string, d Draft) error {
	if errs := Validate(d, c.now()); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	p := PayloadFromDraft(d)
	p.ID = id
	return c.do(ctx, http.MethodPost, "updateCoupon", nil, p, nil)
}

// Delete 删除优惠券
func (c *Client) Delete(ctx context.Context, id string) error {
	if c.deleteMethod == http.MethodDelete {
		return c.do(ctx, http.MethodDelete, "coupons/"+id, nil, nil, nil)
	}

	q := url.Values{}
	q.Set("id", id)
	return c.do(ctx, http.MethodGet, "deleteCoupon", q, nil, nil)
}

// ListUsers 获取可分配的用户列表
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, "getAllUsersList", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Users == nil {
		resp.Users = []User{}
	}
	return resp.Users, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	op := method + " " + path

	token, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("%s: get credentials: %w", op, err)
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("coupon api unreachable", zap.String("op", op), zap.Error(err))
		return &networkError{op: op, err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &networkError{op: op, err: err}
	}

	c.log.Debug("coupon api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("cost", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		// 响应体不是 JSON 时 message 为空，由 Notify 给出通用提示
		_ = json.Unmarshal(data, &e)
		return newAPIError(resp.StatusCode, e.Message, e.Errors)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %v", op, ErrServer, err)
	}
	return nil
}
