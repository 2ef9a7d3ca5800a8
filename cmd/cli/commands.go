package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/auth"
	"github.com/iho/pocketledger/internal/infrastructure/config"
	"github.com/iho/pocketledger/internal/infrastructure/postgres"
)

func ratesCmd(opts *clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rate operations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current rate snapshot",
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := newAPIClient(opts).get("/api/v1/rates", nil)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), raw)
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Fetch rates from the configured feeds now",
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := newAPIClient(opts).send("POST", "/api/v1/rates/refresh", struct{}{})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), raw)
			},
		},
	)

	return cmd
}

type conversionResult struct {
	Amount   decimal.Decimal `json:"amount"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Rate     decimal.Decimal `json:"rate"`
	AsOf     string          `json:"asOf"`
	Source   string          `json:"source"`
	Degraded bool            `json:"degraded"`
}

func convertCmd(opts *clientOptions) *cobra.Command {
	var amount, from, to string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an amount between currencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}

			raw, err := newAPIClient(opts).get("/api/v1/rates/convert", url.Values{
				"amount": {amount},
				"from":   {from},
				"to":     {to},
			})
			if err != nil {
				return err
			}

			var res conversionResult
			if err := json.Unmarshal(raw, &res); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if res.Degraded {
				fmt.Fprintf(out, "%s %s (no rate for %s, amount unchanged)\n", res.Amount.StringFixed(domain.MoneyScale), res.From, to)
				return nil
			}
			fmt.Fprintf(out, "%s %s = %s %s (rate %s, %s %s)\n",
				amount, res.From, res.Amount.StringFixed(domain.MoneyScale), res.To, res.Rate, res.Source, res.AsOf)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to convert")
	cmd.Flags().StringVar(&from, "from", "", "Source currency")
	cmd.Flags().StringVar(&to, "to", "", "Target currency")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func userCmd(opts *clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User operations",
	}

	var email, name, currency string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := newAPIClient(opts).send("POST", "/api/v1/users", map[string]string{
				"email":    email,
				"name":     name,
				"currency": currency,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "Email address")
	createCmd.Flags().StringVar(&name, "name", "", "Display name")
	createCmd.Flags().StringVar(&currency, "currency", "", "Base currency (default: server default)")
	_ = createCmd.MarkFlagRequired("email")

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := newAPIClient(opts).get("/api/v1/users/me", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}

	var target string
	setCurrencyCmd := &cobra.Command{
		Use:   "set-currency",
		Short: "Move the acting user's ledger to a new base currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := newAPIClient(opts).send("PUT", "/api/v1/users/me/currency", map[string]string{
				"currency": target,
			})
			if err != nil {
				return err
			}

			var res struct {
				From        string `json:"from"`
				To          string `json:"to"`
				Rate        string `json:"rate"`
				RowsUpdated int    `json:"rowsUpdated"`
				Migrated    bool   `json:"migrated"`
			}
			if err := json.Unmarshal(raw, &res); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if !res.Migrated {
				fmt.Fprintf(out, "Already using %s\n", res.To)
				return nil
			}
			fmt.Fprintf(out, "Migrated %s -> %s at %s (%d rows)\n", res.From, res.To, res.Rate, res.RowsUpdated)
			return nil
		},
	}
	setCurrencyCmd.Flags().StringVar(&target, "currency", "", "New base currency")
	_ = setCurrencyCmd.MarkFlagRequired("currency")

	cmd.AddCommand(createCmd, meCmd, setCurrencyCmd)
	return cmd
}

func expenseCmd(opts *clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Expense operations",
	}

	var amount, currency, description string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := newAPIClient(opts).send("POST", "/api/v1/expenses", map[string]string{
				"amount":      amount,
				"currency":    currency,
				"description": description,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	addCmd.Flags().StringVar(&amount, "amount", "", "Amount spent")
	addCmd.Flags().StringVar(&currency, "currency", "", "Currency of the amount (default: your base currency)")
	addCmd.Flags().StringVar(&description, "description", "", "Description")
	_ = addCmd.MarkFlagRequired("amount")

	var display string
	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{
				"limit":  {fmt.Sprint(limit)},
				"offset": {fmt.Sprint(offset)},
			}
			if display != "" {
				q.Set("currency", display)
			}
			raw, err := newAPIClient(opts).get("/api/v1/expenses", q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	listCmd.Flags().StringVar(&display, "currency", "", "Display currency")
	listCmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

// Hooks for tests.
var (
	migrateUp   = postgres.RunMigrations
	migrateDown = postgres.RunMigrationsDown
	loadConfig  = config.Load
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			switch args[0] {
			case "up":
				err = migrateUp(cfg.DatabaseURL)
			case "down":
				err = migrateDown(cfg.DatabaseURL)
			default:
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "migrations",
		Short: "List embedded migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := postgres.MigrationNames()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.AddCommand(migrateCmd, listCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer token utilities",
	}

	var userID string
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token for a user with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration).Generate(&domain.User{ID: userID})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&userID, "for", "", "User ID to sign for")
	_ = issueCmd.MarkFlagRequired("for")

	cmd.AddCommand(issueCmd)
	return cmd
}
