package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchRespondCmd())
	cmd.AddCommand(newMatchDeckCmd())
	cmd.AddCommand(newMatchDrawCmd())
	cmd.AddCommand(newMatchPlayCmd())
	cmd.AddCommand(newMatchResolveCmd())
	cmd.AddCommand(newMatchTiebreakCmd())
	cmd.AddCommand(newMatchEndCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <opponent-username>",
		Short: "Invite a registered player to a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"opponent_username": args[0]}
			var result MatchState

			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchList

			if err := client.Get("/api/v1/matches", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get current match state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState

			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond <id> <accept|decline>",
		Short: "Answer a match invitation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accept bool
			switch args[1] {
			case "accept":
				accept = true
			case "decline":
				accept = false
			default:
				return fmt.Errorf("answer must be 'accept' or 'decline'")
			}

			req := map[string]bool{"accept": accept}
			var result MatchState

			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/respond", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchDeckCmd() *cobra.Command {
	var rock, paper, scissors int
	var randomDeck bool

	cmd := &cobra.Command{
		Use:   "deck <id>",
		Short: "Select your deck for a match",
		Long: `Select your deck by card-type counts, or pass --random to let the
server pick a distribution. Counts must sum to the match's deck size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if !randomDeck {
				if rock+paper+scissors == 0 {
					return fmt.Errorf("pass --rock/--paper/--scissors counts or --random")
				}
				req["distribution"] = map[string]int{
					"rock":     rock,
					"paper":    paper,
					"scissors": scissors,
				}
			}

			var result MatchState

			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/deck", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&rock, "rock", 0, "Number of rock cards")
	cmd.Flags().IntVar(&paper, "paper", 0, "Number of paper cards")
	cmd.Flags().IntVar(&scissors, "scissors", 0, "Number of scissors cards")
	cmd.Flags().BoolVar(&randomDeck, "random", false, "Let the server pick a random distribution")

	return cmd
}

func newMatchDrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw <id>",
		Short: "Draw a card from your deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState

			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/draw", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id> <hand-index>",
		Short: "Play a card from your hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid hand index: %w", err)
			}

			req := map[string]int{"hand_index": idx}
			var result MatchState

			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/play", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve the round once both cards are down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState

			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/resolve", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchTiebreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiebreak <id> <yes|no>",
		Short: "Vote on playing a sudden-death tiebreak round",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accept bool
			switch strings.ToLower(args[1]) {
			case "yes", "y":
				accept = true
			case "no", "n":
				accept = false
			default:
				return fmt.Errorf("answer must be 'yes' or 'no'")
			}

			req := map[string]bool{"accept": accept}
			var result MatchState

			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/tiebreak", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <id>",
		Short: "Cancel a pending invitation or forfeit a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchState

			if err := client.Delete(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if result.ID == "" {
				out.PrintMessage("Match cancelled")
				return nil
			}
			out.Print(result)
			return nil
		},
	}
}
