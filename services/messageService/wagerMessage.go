package messageService

import (
	"context"
	"fmt"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/bwmarrin/discordgo"
)

// Notifier announces terminal wagers. Delivery is best effort: money has
// already moved by the time it is called.
type Notifier interface {
	Notify(ctx context.Context, wager models.Wager) error
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, models.Wager) error { return nil }

// DiscordNotifier posts resolution embeds to one channel over the REST API.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return &DiscordNotifier{session: s, channelID: channelID}, nil
}

func (n *DiscordNotifier) Notify(ctx context.Context, wager models.Wager) error {
	embed := BuildWagerEmbed(wager)
	if embed == nil {
		return nil
	}
	_, err := n.session.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx))
	return err
}

// BuildWagerEmbed picks the resolution or refund embed for a terminal wager
// and returns nil for anything else.
func BuildWagerEmbed(w models.Wager) *discordgo.MessageEmbed {
	switch {
	case w.SettlementState == models.SettlementSettled:
		return BuildWagerResolutionEmbed(w)
	case w.SettlementState == models.SettlementRefunded:
		return BuildWagerRefundEmbed(w)
	}
	return nil
}

// BuildWagerResolutionEmbed creates a consistent embed for settled wagers.
func BuildWagerResolutionEmbed(w models.Wager) *discordgo.MessageEmbed {
	winners, losers := "_No winners_", "_No losers_"
	if w.WinnerID != nil {
		if *w.WinnerID == w.CreatorID {
			winners = displayName(&w.Creator, w.CreatorID)
			losers = displayName(w.Counterparty, derefID(w.CounterpartyID))
		} else {
			winners = displayName(w.Counterparty, *w.WinnerID)
			losers = displayName(&w.Creator, w.CreatorID)
		}
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏁 Wager Resolved: %s", w.Description()),
		Description: actualLine(w),
		Color:       0x57F287, // green-ish
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total Payout",
				Value:  fmt.Sprintf("**%s**", common.FormatAmount(w.Pot, w.Currency)),
				Inline: true,
			},
			{
				Name:  "Winners",
				Value: winners,
			},
			{
				Name:  "Losers",
				Value: losers,
			},
		},
	}
}

func BuildWagerRefundEmbed(w models.Wager) *discordgo.MessageEmbed {
	reason := "refunded"
	if w.RefundReason != nil {
		reason = string(*w.RefundReason)
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   displayName(&w.Creator, w.CreatorID),
			Value:  common.FormatAmount(w.Stake, w.Currency),
			Inline: true,
		},
	}
	if w.CounterpartyID != nil && w.RefundReason != nil && *w.RefundReason == models.RefundTie {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   displayName(w.Counterparty, *w.CounterpartyID),
			Value:  common.FormatAmount(w.CounterpartyStake, w.Currency),
			Inline: true,
		})
	}

	desc := "Nobody accepted before the deadline."
	if reason == string(models.RefundTie) {
		desc = actualLine(w) + " Push, stakes returned."
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("↩️ Wager Refunded (%s): %s", reason, w.Description()),
		Description: desc,
		Color:       0xFEE75C,
		Fields:      fields,
	}
}

func actualLine(w models.Wager) string {
	if w.ActualValue == nil {
		return ""
	}
	return fmt.Sprintf("Final: %g %s.", *w.ActualValue, w.Metric)
}

func displayName(u *models.User, id uint) string {
	if u != nil && u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return fmt.Sprintf("user #%d", id)
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
