package bot

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/guberm/SimpleFinTelegramBot/internal/models"
	"github.com/guberm/SimpleFinTelegramBot/internal/service"
)

func renderHelp() string {
	return strings.Join([]string{
		"Welcome!",
		"",
		"/add — Add a new bank",
		"/accounts — List your banks and accounts",
		"/remove — Remove a bank",
		"/refresh — Refresh accounts",
		"/web — Open WebApp",
		"To add a bank, use /add.",
	}, "\n")
}

func renderAdd(setupURL string) string {
	return strings.Join([]string{
		"To add a bank, follow the link:",
		setupURL,
		"Copy the token and send it to me.",
	}, "\n")
}

func renderLinked(bankName string) string {
	return fmt.Sprintf("✅ Bank '%s' has been connected!", bankName)
}

// renderBankAccounts formats the aggregated account view as Telegram HTML.
// Banks the bridge could not serve show a placeholder instead of hiding.
func renderBankAccounts(results []models.BankAccounts) string {
	var sb strings.Builder
	sb.WriteString("Your connected banks:\n")

	for _, bank := range results {
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(bank.Link.BankName)))

		if bank.Unavailable || len(bank.Accounts) == 0 {
			sb.WriteString("    Unable to retrieve data.\n")
			continue
		}

		for _, acc := range bank.Accounts {
			sb.WriteString(fmt.Sprintf(
				"    Account: <b>%s</b> (%s), Balance: <b>%s</b>, ID: <code>%s</code>\n",
				html.EscapeString(acc.Name),
				html.EscapeString(acc.Currency),
				html.EscapeString(acc.Balance),
				html.EscapeString(acc.ID),
			))
		}

		sb.WriteString(renderTotals(bank.Accounts))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderTotals(accounts []models.AccountSnapshot) string {
	totals := models.TotalBalances(accounts)
	if len(totals) == 0 {
		return ""
	}

	currencies := make([]string, 0, len(totals))
	for currency := range totals {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	parts := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		parts = append(parts, fmt.Sprintf("%s %s", totals[currency].String(), html.EscapeString(currency)))
	}

	return fmt.Sprintf("    Total: <b>%s</b>\n", strings.Join(parts, ", "))
}

// messageForError converts service failures into user-facing text. Service
// errors never reach the user raw.
func messageForError(err error) string {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		return "Something went wrong. Please try again."
	}

	switch svcErr.Code {
	case service.ErrCodeInvalidToken, service.ErrCodeTokenRejected:
		return "❌ Invalid or used token."
	case service.ErrCodeNoBanks:
		return "You have no connected banks."
	case service.ErrCodeInvalidSelection:
		return "Invalid number."
	default:
		return "Something went wrong. Please try again."
	}
}

// isOrdinalReply matches removal-menu answers: a bare number or the echoed
// keyboard label ("2. Example Bank").
func isOrdinalReply(text string) bool {
	head, _, _ := strings.Cut(strings.TrimSpace(text), ".")
	_, err := strconv.Atoi(strings.TrimSpace(head))
	return err == nil
}
