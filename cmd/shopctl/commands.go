package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Skotchmaster/gamestore/internal/app"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/pkg/authclient"
	"github.com/Skotchmaster/gamestore/pkg/config"
	"github.com/Skotchmaster/gamestore/pkg/logging"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "shopctl",
		Usage:     "game store administration",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "seed-products",
				Usage: "import a JSON array of products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				},
				Action: seedProducts,
			},
			{
				Name:  "users",
				Usage: "manage accounts",
				Subcommands: []*cli.Command{
					{
						Name:  "create-admin",
						Usage: "create an account with the admin role",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Required: true},
							&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SHOPCTL_ADMIN_PASSWORD"}},
							&cli.StringFlag{Name: "name"},
						},
						Action: createAdmin,
					},
				},
			},
			{
				Name:  "token",
				Usage: "log in to a running server and print a bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "server", Value: "http://localhost:3000", EnvVars: []string{"SHOPCTL_SERVER"}},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SHOPCTL_PASSWORD"}},
				},
				Action: token,
			},
			{
				Name:  "orders",
				Usage: "inspect and move orders",
				Subcommands: []*cli.Command{
					{
						Name: "list",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "status", Value: string(models.OrderStatusPending)},
						},
						Action: listOrders,
					},
					{Name: "show", ArgsUsage: "ORDER_ID", Action: showOrder},
					{Name: "complete", ArgsUsage: "ORDER_ID", Action: transitionOrder(true)},
					{Name: "revert", ArgsUsage: "ORDER_ID", Action: transitionOrder(false)},
				},
			},
		},
	}
}

// withApp opens the configured backends for a single command.
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", "shopctl")
	ctx := logging.IntoContext(c.Context, logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func seedProducts(c *cli.Context) error {
	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return fmt.Errorf("parse %s: %w", c.String("file"), err)
	}
	return withApp(c, func(ctx context.Context, a *app.App) error {
		n, err := a.Catalog.ImportProducts(ctx, products)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "imported %d products\n", n)
		return nil
	})
}

func createAdmin(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.App) error {
		u, err := a.Auth.CreateUser(ctx, c.String("email"), c.String("password"), c.String("name"),
			models.RoleUser, models.RoleAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "created admin %s (%s)\n", u.Email, u.ID)
		return nil
	})
}

func token(c *cli.Context) error {
	res, err := authclient.NewClient(c.String("server")).Login(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, res.AccessToken)
	return nil
}

func listOrders(c *cli.Context) error {
	status := models.OrderStatus(c.String("status"))
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	return withApp(c, func(ctx context.Context, a *app.App) error {
		var (
			lines []models.OrderLine
			err   error
		)
		if status == models.OrderStatusPending {
			lines, err = a.Orders.ListPending(ctx)
		} else {
			lines, err = a.Orders.ListCompleted(ctx)
		}
		if err != nil {
			return err
		}
		return printLines(c.App.Writer, lines)
	})
}

func showOrder(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("ORDER_ID is required", 2)
	}
	return withApp(c, func(ctx context.Context, a *app.App) error {
		lines, err := a.Orders.Order(ctx, id)
		if err != nil {
			return err
		}
		return printLines(c.App.Writer, lines)
	})
}

func transitionOrder(complete bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		id := c.Args().First()
		if id == "" {
			return cli.Exit("ORDER_ID is required", 2)
		}
		return withApp(c, func(ctx context.Context, a *app.App) error {
			var (
				n   int
				err error
			)
			if complete {
				n, err = a.Orders.MarkOrderCompleted(ctx, id)
			} else {
				n, err = a.Orders.RevertOrderToPending(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%d lines updated\n", n)
			return nil
		})
	}
}

func printLines(w io.Writer, lines []models.OrderLine) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tUSER\tPRODUCT\tQTY\tPRICE\tSTATUS\tDATE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			l.OrderID, l.UserID, l.Title, l.Quantity, l.Price.StringFixed(2), l.Status, l.Date.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
