package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/pkg/auth"
)

const usage = `usage: arkpay-discounts <command> [flags]

commands:
  create         create one code (-code, -description, -limit, -expires)
  bulk           generate codes (-count, -description, -limit, -expires)
  list           print all codes
  deactivate     switch a code off (-code)
  hash-password  read a password from stdin and print its ADMIN_PASSWORD_HASH`

type ledger interface {
	Create(ctx context.Context, req model.NewDiscount) (*model.DiscountCode, error)
	CreateBulk(ctx context.Context, count int, req model.NewDiscount) (*model.BulkResult, error)
	List(ctx context.Context) ([]model.DiscountCode, error)
	Deactivate(ctx context.Context, code string) (*model.DiscountCode, error)
}

var errUsage = errors.New(usage)

func run(ctx context.Context, args []string, l ledger, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		code        = fs.String("code", "", "discount code, generated when empty")
		description = fs.String("description", "", "free-form description")
		limit       = fs.Int("limit", 0, "maximum redemptions, 0 for unlimited")
		expires     = fs.String("expires", "", "expiry as a duration from now (720h), a date (2006-01-02) or RFC3339")
		count       = fs.Int("count", 0, "number of codes to generate")
	)
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	req := model.NewDiscount{Code: *code, Description: *description}
	if *limit > 0 {
		req.UsageLimit = limit
	}
	if *expires != "" {
		at, err := parseExpiry(*expires, time.Now())
		if err != nil {
			return err
		}
		req.ExpiryDate = &at
	}

	switch args[0] {
	case "create":
		created, err := l.Create(ctx, req)
		if err != nil {
			return err
		}
		return printCodes(out, []model.DiscountCode{*created})
	case "bulk":
		req.Code = ""
		result, err := l.CreateBulk(ctx, *count, req)
		if err != nil {
			return err
		}
		if err := printCodes(out, result.Codes); err != nil {
			return err
		}
		for _, item := range result.Errors {
			fmt.Fprintf(out, "code %d failed: %v\n", item.Index, item.Err)
		}
		fmt.Fprintf(out, "created %d, failed %d\n", result.Created, result.Failed)
		return nil
	case "list":
		codes, err := l.List(ctx)
		if err != nil {
			return err
		}
		return printCodes(out, codes)
	case "deactivate":
		if *code == "" {
			return errors.New("deactivate: -code is required")
		}
		d, err := l.Deactivate(ctx, *code)
		if err != nil {
			return err
		}
		return printCodes(out, []model.DiscountCode{*d})
	default:
		return errUsage
	}
}

func parseExpiry(raw string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return now.Add(d), nil
	}
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at, nil
	}
	at, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q: %w", raw, err)
	}
	// last instant of the day at timestamptz resolution
	return at.AddDate(0, 0, 1).Add(-time.Microsecond), nil
}

func printCodes(out io.Writer, codes []model.DiscountCode) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tACTIVE\tUSED\tLIMIT\tEXPIRES")
	for _, c := range codes {
		limit := "-"
		if c.UsageLimit != nil {
			limit = fmt.Sprint(*c.UsageLimit)
		}
		expires := "-"
		if c.ExpiryDate != nil {
			expires = c.ExpiryDate.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%t\t%d\t%s\t%s\n", c.Code, c.IsActive, c.UsedCount, limit, expires)
	}
	return tw.Flush()
}

func hashPassword(in io.Reader, out io.Writer, hasher auth.PasswordHasher) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	hash, err := hasher.Hash(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
