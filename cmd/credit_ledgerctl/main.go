// credit_ledgerctl is the operator tool for the credit ledger service.
//
// The verify command replays ledgers and compares each replay with the
// cached balance on the profile. It exits 1 when any ledger is inconsistent:
//
//	credit_ledgerctl verify --client client-1
//	credit_ledgerctl verify --all --json
//
// The token and secret commands mint access tokens and signing secrets for
// environments without an identity provider:
//
//	credit_ledgerctl token --subject admin-1 --role ADMIN --ttl 1h
//	credit_ledgerctl secret
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/credit_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger_app/internal/core/services"
	"github.com/SscSPs/credit_ledger_app/internal/dto"
	"github.com/SscSPs/credit_ledger_app/internal/platform/config"
	"github.com/SscSPs/credit_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/credit_ledger_app/internal/utils"
	"github.com/SscSPs/credit_ledger_app/pkg/database"
)

// operatorCapability is the identity the tool acts under.
var operatorCapability = domain.Capability{ActorID: "credit-ledgerctl", Roles: []domain.Role{domain.RoleAdmin}}

// exitError carries a process exit code without printing anything more.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

// verifyOptions are the parsed flags of the verify command.
type verifyOptions struct {
	clientID string
	all      bool
	jsonOut  bool
	pageSize int
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return exitError{code: 2}
	}
	switch args[0] {
	case "verify":
		return runVerify(args[1:], stdout)
	case "token":
		return runToken(args[1:], stdout)
	case "secret":
		return runSecret(stdout)
	default:
		printUsage(stdout)
		return exitError{code: 2}
	}
}

func runVerify(args []string, stdout io.Writer) error {
	var opts verifyOptions
	var dsn string
	flagSet := pflag.NewFlagSet("credit_ledgerctl verify", pflag.ContinueOnError)
	flagSet.StringVar(&opts.clientID, "client", "", "verify the ledger of one client")
	flagSet.BoolVar(&opts.all, "all", false, "verify every credit profile")
	flagSet.BoolVar(&opts.jsonOut, "json", false, "print one JSON object per ledger")
	flagSet.StringVar(&dsn, "dsn", "", "PostgreSQL URL (default: PGSQL_URL)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if (opts.clientID == "") == !opts.all {
		return errors.New("exactly one of --client or --all is required")
	}

	// Logs go to stderr so stdout stays machine readable.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if dsn != "" {
		cfg.DatabaseURL = dsn
	}

	ctx := context.Background()
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool)

	svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool)).Credit
	opts.pageSize = cfg.Policy.ClampPageSize(cfg.Policy.MaxPageSize)

	inconsistent, err := verifyLedgers(ctx, svc, opts, stdout)
	if err != nil {
		return err
	}
	if inconsistent > 0 {
		return exitError{code: 1}
	}
	return nil
}

// verifyLedgers verifies the selected ledgers, writes one line per ledger
// and returns how many were inconsistent.
func verifyLedgers(ctx context.Context, svc portssvc.CreditSvcFacade, opts verifyOptions, out io.Writer) (int, error) {
	clientIDs := []string{opts.clientID}
	if opts.all {
		var err error
		if clientIDs, err = allClientIDs(ctx, svc, opts.pageSize); err != nil {
			return 0, err
		}
	}

	inconsistent := 0
	for _, clientID := range clientIDs {
		result, err := svc.VerifyLedger(ctx, operatorCapability, clientID)
		if err != nil {
			return inconsistent, fmt.Errorf("verify %s: %w", clientID, err)
		}
		if !result.Consistent {
			inconsistent++
		}
		if err := printResult(out, result, opts.jsonOut); err != nil {
			return inconsistent, err
		}
	}
	return inconsistent, nil
}

func allClientIDs(ctx context.Context, svc portssvc.CreditSvcFacade, pageSize int) ([]string, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	var ids []string
	for offset := 0; ; offset += pageSize {
		profiles, err := svc.ListCreditProfiles(ctx, operatorCapability, dto.ListCreditProfilesParams{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list credit profiles: %w", err)
		}
		for _, p := range profiles {
			ids = append(ids, p.ClientID)
		}
		if len(profiles) < pageSize {
			return ids, nil
		}
	}
}

func printResult(out io.Writer, result *domain.LedgerVerification, jsonOut bool) error {
	if jsonOut {
		return json.NewEncoder(out).Encode(result)
	}
	state := "ok"
	if !result.Consistent {
		state = "MISMATCH"
	}
	_, err := fmt.Fprintf(out, "%-8s %s cached=%s replayed=%s entries=%d\n",
		state, result.ClientID, result.CachedBalance.StringFixed(2), result.ReplayedBalance.StringFixed(2), result.EntryCount)
	return err
}

// runToken signs an access token with JWT_SECRET unless --secret is given.
func runToken(args []string, stdout io.Writer) error {
	var subject, secret, issuer string
	var roles []string
	var ttl time.Duration
	flagSet := pflag.NewFlagSet("credit_ledgerctl token", pflag.ContinueOnError)
	flagSet.StringVar(&subject, "subject", "", "actor ID; a client's own ID for client tokens")
	flagSet.StringSliceVar(&roles, "role", nil, "role claim, repeatable (ADMIN, OWNER, TENANT_ADMIN, CLIENT)")
	flagSet.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flagSet.StringVar(&secret, "secret", "", "signing secret (default: JWT_SECRET)")
	flagSet.StringVar(&issuer, "issuer", "", "issuer claim (default: JWT_ISSUER)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if subject == "" {
		return errors.New("--subject is required")
	}
	if len(roles) == 0 {
		return errors.New("at least one --role is required")
	}

	if secret == "" || issuer == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if secret == "" {
			secret = cfg.JWTSecret
		}
		if issuer == "" {
			issuer = cfg.JWTIssuer
		}
	}

	token, err := utils.GenerateJWT(subject, roles, secret, ttl, issuer)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func runSecret(stdout io.Writer) error {
	secret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, secret)
	return err
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `usage:
  credit_ledgerctl verify (--client ID | --all) [--json] [--dsn URL]
  credit_ledgerctl token --subject ID --role ROLE [--ttl 1h] [--secret S] [--issuer I]
  credit_ledgerctl secret`)
}
