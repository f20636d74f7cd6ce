package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a tournament server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string
	in         io.Reader // defaults to os.Stdin
	out        io.Writer // defaults to os.Stdout
}

// Connect connects to a server, sends the seat preferences, and runs the REPL.
func Connect(ctx context.Context, addr, name, hero string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", Name: name, Hero: hero}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the tournament to start...")

	client := &Client{conn: conn, playerName: name}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_shop_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx := c.readChoice(reader, len(msg.Actions))
			if err := enc.Encode(ClientMessage{Type: "action", Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "round_result":
			c.renderResults(msg.Results)

		case "tournament_over":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "         TOURNAMENT OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Same layout as log.FormatEvent
	fmt.Fprintf(c.out, "R%-2d %-8s| %s\n", ev.Round, ev.Phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	you := sv.You
	lock := ""
	if sv.Locked {
		lock = " [locked]"
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "── Round %d%s ──\n", sv.Round, lock)
	fmt.Fprintf(c.out, "%s (%s)  HP %d  Money %d  Attack %d\n", you.Name, you.Hero, you.HP, you.Money, you.Attack)

	fmt.Fprint(c.out, "Cards: ")
	if len(you.Cards) == 0 {
		fmt.Fprint(c.out, "(none)")
	}
	for i, cv := range you.Cards {
		if i > 0 {
			fmt.Fprint(c.out, ", ")
		}
		fmt.Fprint(c.out, formatCard(cv))
	}
	fmt.Fprintln(c.out)

	fmt.Fprintln(c.out, "Shop:")
	for _, s := range you.Reserved {
		if !s.Active {
			fmt.Fprintf(c.out, "  [%d] (sold)\n", s.Index+1)
			continue
		}
		fmt.Fprintf(c.out, "  [%d] %s  %d  %s\n", s.Index+1, formatCard(s.Card), s.Card.Cost, strings.Join(s.Card.Branches, "/"))
	}

	fmt.Fprintln(c.out, "Others:")
	for _, o := range sv.Others {
		status := fmt.Sprintf("HP %d", o.HP)
		if !o.Alive {
			status = "eliminated"
		}
		fmt.Fprintf(c.out, "  %-12s %-10s %s\n", o.Name, o.Hero, status)
	}
}

func formatCard(cv CardView) string {
	return fmt.Sprintf("%s L%d/%d", cv.Name, cv.Level, cv.MaxLevel)
}

func (c *Client) renderResults(results []ResultView) {
	fmt.Fprintln(c.out, "\nResults:")
	for _, r := range results {
		if r.Kind != "Fight" {
			fmt.Fprintf(c.out, "  %s sits out\n", r.Player1)
			continue
		}
		fmt.Fprintf(c.out, "  %s vs %s: %s wins (%.2fs)\n", r.Player1, r.Player2, r.Winner, r.Duration)
		for i, st := range r.Stats {
			name := r.Player1
			if i == 1 {
				name = r.Player2
			}
			fmt.Fprintf(c.out, "    %-12s dmg %.0f  heal %.0f  ult %d  crit %d  evade %d\n",
				name, st.Damage, st.Healing, st.Ultimates, st.Crits, st.Evasions)
		}
	}
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

// readChoice returns a 0-indexed choice. End of input picks the last action.
func (c *Client) readChoice(reader *bufio.Reader, count int) int {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		n, perr := strconv.Atoi(line)
		if perr == nil && n >= 1 && n <= count {
			return n - 1 // convert to 0-indexed
		}
		if err != nil {
			return count - 1
		}
		fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
	}
}
