package main

import (
	"context"
	"encoding/json"
	"errors"
	"eyewear_admin/internal/pkg/config"
	"eyewear_admin/pkg/console/coupon"
	"eyewear_admin/pkg/logger"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const usage = `usage: console <command> [flags]

commands:
  list    [-page N] [-limit N] [-search S]
  get     <id>
  create  -code C -type percentage|fixed -value V -expiry 2026-12-31 -max N (-public | -users id1,id2) [-desc D]
  update  <id> [same flags as create, only the given ones change]
  delete  <id>
  users
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := config.Load(); err != nil {
		fail(fmt.Errorf("load config: %w", err))
	}
	cfg := config.GlobalConfig
	if err := cfg.ValidateConsole(); err != nil {
		fail(err)
	}
	if err := logger.Init(cfg.App.Env, false); err != nil {
		fail(err)
	}
	defer logger.Sync()

	client, err := coupon.NewClient(coupon.Config{
		BaseURL:      cfg.Console.BaseURL,
		HTTPClient:   &http.Client{Timeout: time.Duration(cfg.Console.Timeout) * time.Second},
		Credentials:  coupon.StaticToken(cfg.Console.Token),
		DeleteMethod: cfg.Console.DeleteMethod,
		Logger:       logger.L(),
	})
	if err != nil {
		fail(err)
	}
	screen := coupon.NewScreen(client, logger.L())

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "list":
		err = runList(ctx, screen, args)
	case "get":
		err = runGet(ctx, client, args)
	case "create":
		err = runSave(ctx, screen, "", args)
	case "update":
		if len(args) == 0 {
			err = errors.New("update requires an id")
			break
		}
		err = runSave(ctx, screen, args[0], args[1:])
	case "delete":
		err = runDelete(ctx, screen, args)
	case "users":
		var users []coupon.User
		if users, err = client.ListUsers(ctx); err == nil {
			printJSON(users)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.L().Debug("command failed", zap.String("command", cmd), zap.Error(err))
		fail(err)
	}
}

func runList(ctx context.Context, s *coupon.Screen, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "页码")
	limit := fs.Int("limit", 10, "每页条数")
	search := fs.String("search", "", "按券码或描述搜索")
	_ = fs.Parse(args)

	if _, err := s.Refresh(ctx, coupon.Query{Page: *page, PageSize: *limit, Search: *search}); err != nil {
		return err
	}

	snap := s.State()
	now := time.Now()
	for _, c := range snap.Items {
		status := "active"
		if c.Expired(now) {
			status = "expired"
		}
		fmt.Printf("%-36s  %-16s  %-10s  %8.2f  %s  remaining=%d  %s\n",
			c.ID, c.Code, c.DiscountType, c.DiscountValue, c.ExpiryDate.Format("2006-01-02"), c.Remaining(), status)
	}
	fmt.Printf("page %d/%d, %d coupons\n", *page, snap.TotalPages, snap.TotalItems)
	return nil
}

func runGet(ctx context.Context, client *coupon.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("get requires an id")
	}
	c, err := client.GetByID(ctx, args[0])
	if err != nil {
		return err
	}
	printJSON(c)
	return nil
}

// runSave 新建或编辑，编辑时只覆盖命令行中出现的字段
func runSave(ctx context.Context, s *coupon.Screen, id string, args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	code := fs.String("code", "", "券码")
	desc := fs.String("desc", "", "描述")
	typ := fs.String("type", string(coupon.DiscountPercentage), "percentage 或 fixed")
	value := fs.Float64("value", 0, "折扣值")
	expiry := fs.String("expiry", "", "过期时间，2006-01-02 或 RFC3339")
	maxUsage := fs.Int("max", 0, "最大使用次数")
	public := fs.Bool("public", false, "是否公开")
	users := fs.String("users", "", "指定用户ID，逗号分隔")
	_ = fs.Parse(args)

	form, err := s.OpenForm(ctx, id)
	if err != nil {
		return err
	}

	// 新建时可见性以 -public 为准，未传即为指定用户券
	if id == "" {
		form.Draft.IsPublic = *public
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		d := &form.Draft
		switch f.Name {
		case "code":
			d.Code = *code
		case "desc":
			d.Description = *desc
		case "type":
			d.DiscountType = coupon.DiscountType(*typ)
		case "value":
			v := *value
			d.DiscountValue = &v
		case "expiry":
			t, err := parseDate(*expiry)
			if err != nil {
				parseErr = err
				return
			}
			d.ExpiryDate = &t
		case "max":
			m := *maxUsage
			d.MaxUsage = &m
		case "public":
			d.IsPublic = *public
		case "users":
			form.Selector.Clear()
			for _, u := range strings.Split(*users, ",") {
				if u = strings.TrimSpace(u); u != "" {
					form.Selector.Toggle(u, true)
				}
			}
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if err := s.Submit(ctx, form); err != nil {
		return err
	}
	fmt.Printf("saved coupon %s\n", form.ID)
	return nil
}

func runDelete(ctx context.Context, s *coupon.Screen, args []string) error {
	if len(args) == 0 {
		return errors.New("delete requires an id")
	}
	if err := s.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted coupon %s\n", args[0])
	return nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q", v)
	}
	// 按当天结束计算
	return t.Add(24*time.Hour - time.Second), nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// fail 输出与后台页面一致的提示并退出
func fail(err error) {
	n := coupon.Notify(err)
	fmt.Fprintf(os.Stderr, "%s: %s\n", n.Title, n.Message)

	var verr *coupon.ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f, verr.Fields[f])
		}
	}
	os.Exit(1)
}
