package cli

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"storerating/internal/domain/entity"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/usecase"

	"github.com/google/uuid"
)

type command struct {
	usage string
	help  string
	// async commands return at once; every other command first waits for them to resolve.
	async bool
	run   func(c *Console, ctx context.Context, args string) (quit bool)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":      {usage: "help", help: "list commands", run: runHelp},
		"login":     {usage: "login <email> <password>", help: "sign in", async: true, run: runLogin},
		"register":  {usage: "register <name> | <email> | <address> | <password>", help: "create a customer account", async: true, run: runRegister},
		"logout":    {usage: "logout", help: "sign out", run: runLogout},
		"whoami":    {usage: "whoami", help: "show the active principal", run: runWhoami},
		"dashboard": {usage: "dashboard", help: "show the dashboard of your role", run: runDashboard},
		"stores":    {usage: "stores", help: "list stores with their ratings", run: runStores},
		"rate":      {usage: "rate <n> <1-5>", help: "rate store n of `stores`", run: runRate},
		"ratings":   {usage: "ratings <n>", help: "list ratings of store n", run: runRatings},
		"passwd":    {usage: "passwd <new password>", help: "change your password", async: true, run: runPasswd},
		"quit":      {usage: "quit", help: "leave the console", run: runQuit},
	}
	commands["exit"] = commands["quit"]
}

func runHelp(c *Console, _ context.Context, _ string) bool {
	names := make([]string, 0, len(commands))
	for name := range commands {
		if name != "exit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		c.printf("  %-52s %s\n", cmd.usage, cmd.help)
	}

	return false
}

func runLogin(c *Console, ctx context.Context, args string) bool {
	email, password, ok := strings.Cut(args, " ")
	if !ok || email == "" || password == "" {
		c.printf("Usage: %s\n", commands["login"].usage)

		return false
	}

	c.async("Signing in", func() {
		principal, err := c.identity.Login(ctx, usecase.LoginInput{Email: email, Password: password})
		if err != nil {
			c.report(ctx, err)

			return
		}

		c.printf("Signed in as %s (%s).\n", principal.Name, principal.Role)
		c.renderDashboard(ctx)
	})

	return false
}

func runRegister(c *Console, ctx context.Context, args string) bool {
	fields := strings.Split(args, "|")
	if len(fields) != 4 {
		c.printf("Usage: %s\n", commands["register"].usage)

		return false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	input := usecase.RegisterInput{Name: fields[0], Email: fields[1], Address: fields[2], Password: fields[3]}
	c.async("Creating account", func() {
		principal, err := c.identity.Register(ctx, input)
		if err != nil {
			c.report(ctx, err)

			return
		}

		c.printf("Welcome, %s.\n", principal.Name)
		c.renderDashboard(ctx)
	})

	return false
}

func runLogout(c *Console, ctx context.Context, _ string) bool {
	c.identity.Logout(ctx)
	c.printf("Signed out.\n")

	return false
}

func runWhoami(c *Console, _ context.Context, _ string) bool {
	principal := c.identity.Current()
	if principal == nil {
		c.printf("%s (%s)\n", anonymousName, entity.SessionAnonymous)

		return false
	}

	c.printf("%s <%s> %s (%s)\n", principal.Name, principal.Email, principal.Role, c.identity.State())

	return false
}

func runDashboard(c *Console, ctx context.Context, _ string) bool {
	c.renderDashboard(ctx)

	return false
}

func runStores(c *Console, ctx context.Context, _ string) bool {
	stores, err := c.directory.ListStores(ctx)
	if err != nil {
		c.report(ctx, err)

		return false
	}

	c.outMu.Lock()
	defer c.outMu.Unlock()
	writeStores(c.out, stores)

	return false
}

func runRate(c *Console, ctx context.Context, args string) bool {
	principal := c.identity.Current()
	if principal == nil {
		c.report(ctx, domainerrors.ErrAuthentication.WithDetails("sign in to rate stores"))

		return false
	}
	if principal.Role != entity.RoleCustomer {
		c.report(ctx, domainerrors.ErrForbidden.WithDetails("only customers can rate stores"))

		return false
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		c.printf("Usage: %s\n", commands["rate"].usage)

		return false
	}

	storeID, ok := c.resolveStore(ctx, fields[0])
	if !ok {
		return false
	}

	value, err := strconv.Atoi(fields[1])
	if err != nil {
		c.printf("Usage: %s\n", commands["rate"].usage)

		return false
	}

	if _, err := c.ratings.SubmitRating(ctx, principal.ID, storeID, entity.RatingValue(value)); err != nil {
		c.report(ctx, err)

		return false
	}

	agg, err := c.ratings.AggregateFor(ctx, storeID)
	if err != nil {
		c.report(ctx, err)

		return false
	}

	c.printf("Rated %d. Store now at %s.\n", value, formatAggregate(agg))

	return false
}

func runRatings(c *Console, ctx context.Context, args string) bool {
	storeID, ok := c.resolveStore(ctx, strings.TrimSpace(args))
	if !ok {
		return false
	}

	ratings, err := c.ratings.ListRatingsForStore(ctx, storeID)
	if err != nil {
		c.report(ctx, err)

		return false
	}

	if len(ratings) == 0 {
		c.printf("No ratings yet.\n")

		return false
	}
	for _, r := range ratings {
		c.printf("  %s %s\n", stars(r.Value), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	return false
}

func runPasswd(c *Console, ctx context.Context, args string) bool {
	if args == "" {
		c.printf("Usage: %s\n", commands["passwd"].usage)

		return false
	}

	c.async("Changing password", func() {
		if err := c.identity.ChangeCredential(ctx, usecase.ChangeCredentialInput{NewPassword: args}); err != nil {
			c.report(ctx, err)

			return
		}

		c.printf("Password changed.\n")
	})

	return false
}

func runQuit(c *Console, _ context.Context, _ string) bool {
	c.printf("Bye.\n")

	return true
}

// resolveStore maps a 1-based position in the store list, or a store ID, to the store ID.
func (c *Console) resolveStore(ctx context.Context, ref string) (uuid.UUID, bool) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, true
	}

	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		c.printf("Unknown store %q. Use its number from `stores`.\n", ref)

		return uuid.Nil, false
	}

	stores, err := c.directory.ListStores(ctx)
	if err != nil {
		c.report(ctx, err)

		return uuid.Nil, false
	}
	if n > len(stores) {
		c.printf("Unknown store %q. Use its number from `stores`.\n", ref)

		return uuid.Nil, false
	}

	return stores[n-1].ID, true
}
