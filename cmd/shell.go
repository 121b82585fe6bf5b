package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/listing"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session",
	Long: `Start an interactive session. One view is open at a time: opening
another closes the current one and cancels its requests.

Type help inside the shell for its commands.`,
	Args: exactArgs(0),
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

const shellHelp = `Commands:
  login [<email> <password>]     sign in (defaults to --email/--password)
  logout                         sign out
  whoami                         show the signed-in account
  recent                         newest reports
  browse [page]                  open the feed
  next | prev | page <n>         move through the feed
  limit <6-9>                    items per page
  filter [type=lost|found|all] [category=<name>|all] [query=<text>]
  mine                           your posts
  delete <id>                    delete one of your posts
  recovered [grid|table]         items you recovered
  show <id>                      post details
  claim <location> [YYYY-MM-DD]  record the recovery of the shown post
  help                           this help
  quit                           leave the shell`

// views in the shell
const (
	viewNone      = ""
	viewRecent    = "recent"
	viewBrowse    = "browse"
	viewMine      = "mine"
	viewRecovered = "recovered"
	viewDetail    = "detail"
)

type shell struct {
	in  *bufio.Scanner
	out io.Writer

	recent    *listing.RecentView
	browse    *listing.BrowseView
	mine      *listing.MyPostsView
	recovered *listing.RecoveredView
	detail    *listing.DetailView

	current    string
	needSignIn bool
	expired    atomic.Bool
}

func newShell(in io.Reader, out io.Writer) (*shell, error) {
	deps := listingDeps()
	browse, err := listing.NewBrowseView(deps, cfg.Browse.DefaultLimit)
	if err != nil {
		return nil, err
	}
	return &shell{
		in:        bufio.NewScanner(in),
		out:       out,
		recent:    listing.NewRecentView(deps),
		browse:    browse,
		mine:      listing.NewMyPostsView(deps),
		recovered: listing.NewRecoveredView(deps),
		detail:    listing.NewDetailView(deps),
	}, nil
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sh, err := newShell(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	prev := onSessionExpired
	onSessionExpired = func() { sh.expired.Store(true) }
	defer func() {
		onSessionExpired = prev
		sh.unmountAll()
	}()

	if _, err := requireSession(ctx); err != nil && !errors.Is(err, domain.ErrNotSignedIn) {
		sh.fail(err)
	}
	printer.Print("WhereIsIt shell. Type help for commands.")
	return sh.run(ctx)
}

func (sh *shell) run(ctx context.Context) error {
	for ctx.Err() == nil {
		sh.prompt()
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		fields := strings.Fields(sh.in.Text())
		if len(fields) == 0 {
			continue
		}
		if quit := sh.exec(ctx, fields[0], fields[1:]); quit {
			return nil
		}
		if sh.expired.CompareAndSwap(true, false) {
			sh.toSignIn()
		}
	}
	return nil
}

func (sh *shell) prompt() {
	switch id, ok := sessions.Current(); {
	case sh.needSignIn:
		fmt.Fprint(sh.out, "sign in> ")
	case ok:
		fmt.Fprintf(sh.out, "whereisit (%s)> ", id.Email)
	default:
		fmt.Fprint(sh.out, "whereisit> ")
	}
}

// exec runs one shell command and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, name string, args []string) bool {
	switch name {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return false
	case "login":
		sh.login(ctx, args)
		return false
	}

	if sh.needSignIn {
		printer.Warning("%s Use: login <email> <password>", listing.MsgSignInFirst)
		return false
	}

	switch name {
	case "logout":
		sh.unmountAll()
		if err := sessions.SignOut(ctx); err != nil {
			sh.fail(err)
			return false
		}
		printer.Info("Signed out")
	case "whoami":
		id, ok := sessions.Current()
		if !ok {
			printer.Info("Not signed in")
			return false
		}
		summary, err := accountActivity(ctx, id)
		if err != nil {
			sh.fail(err)
			return false
		}
		printer.Identity(summary.Identity, summary.Posts, summary.Recovered)
	case "recent":
		sh.switchTo(viewRecent)
		if err := sh.recent.Load(ctx); err == nil {
			sh.render(printer.Listings(sh.recent.Posts()))
		}
	case "browse":
		page, ok := sh.intArg(args, 1)
		if !ok {
			return false
		}
		sh.switchTo(viewBrowse)
		sh.showFeed(sh.browse.MountAt(ctx, page))
	case "next", "prev", "page", "limit":
		sh.paginate(ctx, name, args)
	case "filter":
		sh.filter(args)
	case "mine":
		sh.switchTo(viewMine)
		if err := sh.mine.Load(ctx); err == nil {
			sh.render(printer.Listings(sh.mine.Posts()))
		}
	case "delete":
		sh.delete(ctx, args)
	case "recovered":
		layout := "grid"
		if len(args) > 0 {
			layout = args[0]
		}
		if layout != "grid" && layout != "table" {
			printer.Warning("Layout must be grid or table")
			return false
		}
		sh.switchTo(viewRecovered)
		if err := sh.recovered.Load(ctx); err == nil {
			sh.render(printer.Recovered(sh.recovered.Items(), layout))
		}
	case "show":
		if len(args) != 1 {
			printer.Warning("Usage: show <id>")
			return false
		}
		sh.switchTo(viewDetail)
		if err := sh.detail.Load(ctx, args[0]); err == nil {
			sh.showDetail()
		}
	case "claim":
		sh.claim(ctx, args)
	default:
		printer.Warning("Unknown command %q. Type help for commands.", name)
	}
	return false
}

func (sh *shell) login(ctx context.Context, args []string) {
	email, password := credentials()
	switch len(args) {
	case 0:
	case 2:
		email, password = args[0], args[1]
	default:
		printer.Warning("Usage: login <email> <password>")
		return
	}

	var (
		id  domain.Identity
		err error
	)
	if len(args) == 0 && idTokenFlag != "" {
		id, err = sessions.SignInWithProvider(ctx, providerFlag, idTokenFlag)
	} else {
		if email == "" || password == "" {
			printer.Warning("Usage: login <email> <password>")
			return
		}
		id, err = sessions.SignIn(ctx, email, password)
	}
	if err != nil {
		sh.fail(err)
		return
	}
	sh.needSignIn = false
	sh.expired.Store(false)
	printer.Success("Signed in as %s (%s)", id.DisplayName, id.Email)
}

// toSignIn closes every view and sends the user to the sign-in prompt.
func (sh *shell) toSignIn() {
	sh.unmountAll()
	sh.needSignIn = true
	printer.Warning("Sign in again with: login <email> <password>")
}

func (sh *shell) paginate(ctx context.Context, name string, args []string) {
	if sh.current != viewBrowse {
		printer.Warning("Open the feed with browse first")
		return
	}
	var err error
	switch name {
	case "next":
		err = sh.browse.Next(ctx)
	case "prev":
		err = sh.browse.Prev(ctx)
	case "page":
		n, ok := sh.intArg(args, 0)
		if !ok {
			return
		}
		err = sh.browse.GoToPage(ctx, n)
	case "limit":
		n, ok := sh.intArg(args, 0)
		if !ok {
			return
		}
		err = sh.browse.SetLimit(ctx, n)
	}
	switch {
	case errors.Is(err, domain.ErrNoNextPage), errors.Is(err, domain.ErrNoPrevPage):
		printer.Info("No more pages that way")
	case errors.Is(err, domain.ErrValidation):
		printer.Warning("%s", err.Error())
	default:
		sh.showFeed(err)
	}
}

func (sh *shell) filter(args []string) {
	if sh.current != viewBrowse {
		printer.Warning("Open the feed with browse first")
		return
	}
	cur := sh.browse.State().Filter
	typ, category, query := string(cur.Type), cur.Category, cur.Query
	if len(args) == 0 {
		typ, category, query = "", "", ""
	}
	for _, arg := range args {
		key, value, _ := strings.Cut(arg, "=")
		switch key {
		case "type":
			typ = value
		case "category":
			category = value
		case "query":
			query = value
		default:
			printer.Warning("Unknown filter %q", key)
			return
		}
	}
	f, err := listing.ParseFilter(typ, category, query)
	if err != nil {
		printer.Warning("%s", err.Error())
		return
	}
	sh.browse.SetFilter(f)
	sh.showFeed(nil)
}

func (sh *shell) showFeed(err error) {
	if err != nil {
		return
	}
	st := sh.browse.State()
	if err := printer.Listings(st.Visible); err != nil {
		sh.fail(err)
		return
	}
	printer.Pagination(st.Pagination, st.Window, len(st.Visible))
}

func (sh *shell) showDetail() {
	post, ok := sh.detail.Post()
	if !ok {
		return
	}
	printer.ListingDetail(post)
	if sh.detail.CanClaim() {
		printer.Print("\nStill open. Record its recovery with: claim <location> [YYYY-MM-DD]")
	}
}

func (sh *shell) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		printer.Warning("Usage: delete <id>")
		return
	}
	if !sh.ask(fmt.Sprintf("Delete post %s?", args[0])) {
		printer.Info("Cancelled")
		return
	}
	if err := sh.mine.Delete(ctx, args[0]); err == nil && sh.current == viewMine {
		sh.render(printer.Listings(sh.mine.Posts()))
	}
}

func (sh *shell) claim(ctx context.Context, args []string) {
	if sh.current != viewDetail {
		printer.Warning("Open a post with show <id> first")
		return
	}
	if len(args) == 0 {
		printer.Warning("Usage: claim <location> [YYYY-MM-DD]")
		return
	}
	rawDate := ""
	if n := len(args); n > 1 {
		if _, err := parseDate(args[n-1]); err == nil {
			rawDate, args = args[n-1], args[:n-1]
		}
	}
	date, err := parseDate(rawDate)
	if err != nil {
		sh.fail(err)
		return
	}
	if err := sh.detail.OpenClaim(); err != nil {
		sh.fail(err)
		return
	}
	if err := sh.detail.Claim(ctx, listing.ClaimForm{Location: strings.Join(args, " "), Date: date}); err == nil {
		sh.showDetail()
	}
}

// switchTo makes name the open view, unmounting the previous one.
func (sh *shell) switchTo(name string) {
	if sh.current != name {
		sh.unmount(sh.current)
	}
	sh.current = name
}

func (sh *shell) unmount(name string) {
	switch name {
	case viewRecent:
		sh.recent.Unmount()
	case viewBrowse:
		sh.browse.Unmount()
	case viewMine:
		sh.mine.Unmount()
	case viewRecovered:
		sh.recovered.Unmount()
	case viewDetail:
		sh.detail.Unmount()
	}
}

func (sh *shell) unmountAll() {
	for _, name := range []string{viewRecent, viewBrowse, viewMine, viewRecovered, viewDetail} {
		sh.unmount(name)
	}
	sh.current = viewNone
}

func (sh *shell) ask(question string) bool {
	fmt.Fprintf(sh.out, "%s [y/N]: ", question)
	if !sh.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sh.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// intArg parses args[0], or returns def when args is empty and def > 0.
func (sh *shell) intArg(args []string, def int) (int, bool) {
	if len(args) == 0 {
		if def > 0 {
			return def, true
		}
		printer.Warning("Missing number")
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		printer.Warning("%q is not a number", args[0])
		return 0, false
	}
	return n, true
}

func (sh *shell) render(err error) {
	if err != nil {
		sh.fail(err)
	}
}

// fail prints errors that no view reported.
func (sh *shell) fail(err error) {
	printer.FormatError(classify(err))
}
