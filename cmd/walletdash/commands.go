package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wallet-dash/pkg/app"
	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/portfolio"
	"github.com/wallet-dash/pkg/state"
	"github.com/wallet-dash/pkg/streak"
	"github.com/wallet-dash/pkg/wallet"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

func newTable(header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader(header)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	return t
}

// ---- Wallets ----

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "List, add or remove tracked wallets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tracked wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ws := e.app.Wallets()
			if ws.Len() == 0 {
				faint.Println("no wallets tracked")
				return nil
			}
			t := newTable("Key", "Chain", "Address", "Label", "Added")
			for _, w := range ws.Wallets {
				t.Append([]string{w.Key(), string(w.Chain), w.Address, w.Label, w.AddedAt.Local().Format("2006-01-02")})
			}
			t.Render()
			return nil
		},
	}

	var chainName, label string
	add := &cobra.Command{
		Use:   "add <address>",
		Short: "Track a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			w, err := e.app.AddWallet(args[0], config.Chain(chainName), label)
			if err != nil {
				return err
			}
			green.Printf("➕ tracking %s on %s\n", wallet.Abbrev(w.Address), w.Chain)
			return nil
		},
	}
	add.Flags().StringVarP(&chainName, "chain", "c", "", "solana, ethereum, base or bsc (default: detect from address)")
	add.Flags().StringVarP(&label, "label", "l", "", "display label")

	remove := &cobra.Command{
		Use:   "remove <key>",
		Short: "Stop tracking a wallet (key as shown by list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.app.RemoveWallet(args[0]); err != nil {
				return err
			}
			yellow.Printf("removed %s\n", args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Track every wallet address found in a text file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if args[0] == "-" {
				text, err = io.ReadAll(os.Stdin)
			} else {
				text, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			found := wallet.Extract(string(text))
			added := 0
			for _, c := range found {
				w, err := e.app.AddWallet(c.Address, c.Chain, label)
				switch {
				case errors.Is(err, state.ErrDuplicateWallet):
					faint.Printf("   %s already tracked\n", wallet.Abbrev(c.Address))
				case err != nil:
					yellow.Printf("   %s: %v\n", wallet.Abbrev(c.Address), err)
				default:
					added++
					green.Printf("➕ %s on %s\n", wallet.Abbrev(w.Address), w.Chain)
				}
			}
			fmt.Printf("%d found, %d added\n", len(found), added)
			return nil
		},
	}
	importCmd.Flags().StringVarP(&label, "label", "l", "", "label for every imported wallet")

	cmd.AddCommand(list, add, remove, importCmd)
	return cmd
}

// ---- Settings ----

func numbersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "numbers",
		Short: "Toggle whether amounts are shown or masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			st, err := e.app.ToggleNumbers()
			if err != nil {
				return err
			}
			if st.NumbersVisible {
				green.Println("numbers visible")
			} else {
				yellow.Println("numbers hidden")
			}
			return nil
		},
	}
}

// ---- Streak ----

func checkinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Check in for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			v, pts, err := e.app.CheckIn()
			if errors.Is(err, streak.ErrAlreadyCheckedIn) {
				yellow.Printf("already checked in today · streak %d\n", v.Current)
				return nil
			}
			if err != nil {
				return err
			}
			green.Printf("✅ +%d points · streak %d (longest %d)\n", pts, v.Current, v.Longest)
			return nil
		},
	}
}

func streakCmd() *cobra.Command {
	var history int
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the check-in streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			v, err := e.app.Streak()
			if err != nil {
				return err
			}
			c := green
			if v.Status == streak.Lapsed || v.Status == streak.NoHistory {
				c = yellow
			}
			c.Printf("🔥 %d day streak (%s)\n", v.Current, v.Status)
			fmt.Printf("   longest %d · %d days · %d points\n", v.Longest, v.TotalDays, v.TotalPoints)

			if history <= 0 {
				return nil
			}
			logs, err := e.store.GetCheckIns(app.CheckInSubject, history)
			if err != nil {
				return err
			}
			t := newTable("Day", "Points")
			for _, l := range logs {
				t.Append([]string{l.Day, strconv.Itoa(l.Points)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&history, "history", "n", 0, "also list the last n check-ins")
	return cmd
}

// ---- Backend ----

func leaderboardCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the check-in leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if e.backend == nil {
				return errNoBackend
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.BackendTimeout)
			defer cancel()
			entries, err := e.backend.Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			t := newTable("#", "Address", "Points", "Streak")
			for _, en := range entries {
				t.Append([]string{strconv.Itoa(en.Rank), wallet.Abbrev(en.Address), strconv.Itoa(en.Points), strconv.Itoa(en.Streak)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}

func notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications <address>",
		Short: "List backend notifications for a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if e.backend == nil {
				return errNoBackend
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.BackendTimeout)
			defer cancel()
			ns, err := e.backend.Notifications(ctx, args[0])
			if err != nil {
				return err
			}
			if len(ns) == 0 {
				faint.Println("no notifications")
				return nil
			}
			for _, n := range ns {
				mark := "•"
				if n.Read {
					mark = " "
				}
				fmt.Printf("%s %s  %s\n", mark, faint.Sprint(n.CreatedAt.Local().Format("01-02 15:04")), n.Title)
				if n.Body != "" {
					faint.Printf("    %s\n", n.Body)
				}
			}
			return nil
		},
	}
}

func referralCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "referral <address>",
		Short: "Show the referral code and stats for a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if e.backend == nil {
				return errNoBackend
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.BackendTimeout)
			defer cancel()
			r, err := e.backend.Referral(ctx, args[0])
			if err != nil {
				return err
			}
			green.Printf("code %s\n", r.Code)
			fmt.Printf("   %d referred · %d points\n", r.Referred, r.PointsWon)
			return nil
		},
	}
}

// ---- Snapshot ----

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Value all wallets now and record a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			v, err := portfolio.Snapshot(ctx, e.aggregator(), e.store, e.app.WalletSlice())
			if v != nil {
				printValuation(e, v)
			}
			return err
		},
	}
}

func printValuation(e *env, v *portfolio.Valuation) {
	st := e.app.Settings()
	t := newTable("Wallet", "Chain", "Balance", "Value")
	for _, h := range v.Holdings {
		bal := h.Balance.StringFixed(4) + " " + h.Symbol
		val := st.Money(h.ValueUSD)
		if !st.NumbersVisible {
			bal = state.Mask
		}
		if h.Error != "" {
			bal, val = "error", color.RedString(h.Error)
		}
		name := h.Wallet.Label
		if name == "" {
			name = wallet.Abbrev(h.Wallet.Address)
		}
		t.Append([]string{name, string(h.Wallet.Chain), bal, val})
	}
	t.SetFooter([]string{"", "", "Total", st.Money(v.TotalUSD)})
	t.Render()
}
