package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/whereisit-project/whereisit/internal/apitest"
	"github.com/whereisit-project/whereisit/internal/config"
	"github.com/whereisit-project/whereisit/internal/domain"
)

const (
	owner    = "ana@example.com"
	stranger = "bo@example.com"
	secret   = "Secret1"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

type testEnv struct {
	srv *apitest.Server
	idp *apitest.Identity
}

// newTestEnv points the CLI at a fake backend and a fake identity provider
// with one account, owner.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := apitest.NewServer(t)
	idp := apitest.NewIdentity()
	idp.AddUser(owner, secret, "Ana Lima")

	t.Setenv("WHEREISIT_API_BASE_URL", srv.URL)
	t.Setenv("WHEREISIT_EMAIL", "")
	t.Setenv("WHEREISIT_PASSWORD", "")
	t.Setenv("NO_COLOR", "1")

	prev := newIdentityProvider
	newIdentityProvider = func(*config.Config) domain.IdentityProvider { return idp }
	t.Cleanup(func() { newIdentityProvider = prev })

	return &testEnv{srv: srv, idp: idp}
}

// run executes the CLI with args and stdin.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	code := Execute(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// runAs runs args signed in as owner.
func (e *testEnv) runAs(t *testing.T, args ...string) cliResult {
	t.Helper()
	return e.run(t, "", append(args, "--email", owner, "--password", secret)...)
}

// resetFlags restores every flag to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func openPost(id, email string) domain.Listing {
	return domain.Listing{
		ID:          id,
		PostType:    domain.PostTypeLost,
		Thumbnail:   "https://img.example.com/wallet.png",
		Title:       "Brown wallet",
		Description: "Leather, two cards inside",
		Category:    domain.CategoryWallets,
		Location:    "Central station",
		Date:        time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Name:        "Ana Lima",
		Email:       email,
	}
}
