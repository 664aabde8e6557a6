package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/teampulse/pulsebot/log"
	"github.com/teampulse/pulsebot/report"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.showMenu(userID, chatID)
	case "help":
		b.sendHelp(userID, chatID)
	case "newweek":
		if b.requireAdmin(userID, chatID) {
			b.newWeek(ctx, chatID)
		}
	case "exportcsv":
		if b.requireAdmin(userID, chatID) {
			b.exportCSV(ctx, chatID)
		}
	case "listweeks":
		if b.requireAdmin(userID, chatID) {
			b.listWeeks(ctx, chatID)
		}
	case "broadcast":
		if b.requireAdmin(userID, chatID) {
			b.broadcast(ctx, chatID, msg.CommandArguments())
		}
	case "addadmin":
		if b.requireMain(userID, chatID) {
			b.addAdmin(chatID, msg.CommandArguments())
		}
	case "removeadmin":
		if b.requireMain(userID, chatID) {
			b.removeAdmin(chatID, msg.CommandArguments())
		}
	case "listadmins":
		if b.requireMain(userID, chatID) {
			b.listAdmins(chatID)
		}
	case "editquestions":
		if b.requireMain(userID, chatID) {
			b.editQuestions(chatID, msg.CommandArguments())
		}
	default:
		b.reply(chatID, "Unknown command. Send /help for the command list.")
	}
}

func (b *Bot) requireAdmin(userID, chatID int64) bool {
	if !b.app.Admins.IsAdmin(userID) {
		b.reply(chatID, unauthorizedText)
		return false
	}
	return true
}

func (b *Bot) requireMain(userID, chatID int64) bool {
	if !b.app.Admins.IsMain(userID) {
		b.reply(chatID, "Only the main admin can perform this action.")
		return false
	}
	return true
}

func (b *Bot) newWeek(ctx context.Context, chatID int64) {
	p, err := b.app.Periods.Rotate(ctx)
	if err != nil {
		log.Errorf("bot.new_week: %s", err)
		b.reply(chatID, "Failed to create a new sheet. Please try again later.")
		return
	}
	b.reply(chatID, fmt.Sprintf("New week started! Responses will be saved to %s", p.URL()))
}

func (b *Bot) exportCSV(ctx context.Context, chatID int64) {
	name, data, err := b.app.Reports.ExportCSV(ctx)
	switch {
	case errors.Is(err, report.ErrNoPeriod):
		b.reply(chatID, "No active week yet.")
		return
	case err != nil:
		log.Errorf("bot.export_csv: %s", err)
		b.reply(chatID, "An error occurred while exporting the CSV. Please try again later.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = "Here is the CSV export for this week."
	if _, err := b.api.Send(doc); err != nil {
		log.Errorf("bot.export_csv.send: %s", err)
	}
}

func (b *Bot) listWeeks(ctx context.Context, chatID int64) {
	periods, err := b.app.Periods.List(ctx)
	if err != nil {
		log.Errorf("bot.list_weeks: %s", err)
		b.reply(chatID, "An error occurred while listing weeks. Please try again later.")
		return
	}
	if len(periods) == 0 {
		b.reply(chatID, "No weeks recorded yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Weeks' Google Sheets:\n")
	for _, p := range periods {
		fmt.Fprintf(&sb, "Week %d: %s\n", p.Number, p.URL())
	}
	b.reply(chatID, sb.String())
}

// broadcast fans a message out to everyone who submitted in the active
// week. Per-recipient failures are logged and skipped.
func (b *Bot) broadcast(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.reply(chatID, "Usage: /broadcast <message>")
		return
	}

	ids, err := b.app.Reports.DistinctParticipants(ctx)
	switch {
	case errors.Is(err, report.ErrNoPeriod):
		b.reply(chatID, "No active week yet.")
		return
	case err != nil:
		log.Errorf("bot.broadcast: %s", err)
		b.reply(chatID, "An error occurred while reading participants. Please try again later.")
		return
	}

	delivered := 0
	for _, id := range ids {
		if _, err := b.gw.Send(id, text); err != nil {
			log.Warnf("bot.broadcast.send: participant %d: %s", id, err)
			continue
		}
		delivered++
	}
	b.reply(chatID, fmt.Sprintf("Broadcast delivered to %d of %d participants.", delivered, len(ids)))
}

func (b *Bot) addAdmin(chatID int64, arg string) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		b.reply(chatID, "Please provide a valid user ID to add as a sub-admin.")
		return
	}

	added, err := b.app.Admins.Add(id)
	if err != nil {
		log.Errorf("bot.add_admin: %s", err)
		b.reply(chatID, "An error occurred while adding an admin. Please try again later.")
		return
	}
	if !added {
		b.reply(chatID, fmt.Sprintf("User %d is already a sub-admin.", id))
		return
	}
	b.reply(chatID, fmt.Sprintf("User %d has been added as a sub-admin.", id))
}

func (b *Bot) removeAdmin(chatID int64, arg string) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		b.reply(chatID, "Please provide a valid user ID to remove as a sub-admin.")
		return
	}

	removed, err := b.app.Admins.Remove(id)
	if err != nil {
		log.Errorf("bot.remove_admin: %s", err)
		b.reply(chatID, "An error occurred while removing an admin. Please try again later.")
		return
	}
	if !removed {
		b.reply(chatID, fmt.Sprintf("User %d is not a sub-admin.", id))
		return
	}
	b.reply(chatID, fmt.Sprintf("User %d has been removed as a sub-admin.", id))
}

func (b *Bot) listAdmins(chatID int64) {
	ids, err := b.app.Admins.List()
	if err != nil {
		log.Errorf("bot.list_admins: %s", err)
		b.reply(chatID, "An error occurred while listing admins. Please try again later.")
		return
	}
	if len(ids) == 0 {
		b.reply(chatID, "No sub-admins registered.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Sub-admins:\n")
	for _, id := range ids {
		fmt.Fprintf(&sb, "%d\n", id)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) editQuestions(chatID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		questions := b.app.Catalog.List()
		var sb strings.Builder
		sb.WriteString("Current questions:\n")
		for i, q := range questions {
			fmt.Fprintf(&sb, "%d) %s\n", i+1, q)
		}
		b.reply(chatID, sb.String())
		return
	}

	verb, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "add":
		if rest == "" {
			b.reply(chatID, "Usage: /editquestions add <question>")
			return
		}
		b.app.Catalog.Add(rest)
		b.reply(chatID, "New question added: "+rest)

	case "remove":
		number, err := strconv.Atoi(rest)
		if err != nil {
			b.reply(chatID, "Invalid question number.")
			return
		}
		removed, err := b.app.Catalog.Remove(number - 1)
		if err != nil {
			b.reply(chatID, "Invalid question number.")
			return
		}
		b.reply(chatID, "Question removed: "+removed)

	default:
		b.reply(chatID, "Invalid command. Use /editquestions add <question> or /editquestions remove <number>.")
	}
}

func (b *Bot) sendHelp(userID, chatID int64) {
	var sb strings.Builder
	sb.WriteString("/start — open the weekly update form\n")
	sb.WriteString("/help — this list\n")
	if b.app.Admins.IsAdmin(userID) {
		sb.WriteString("/newweek — start a new week's sheet\n")
		sb.WriteString("/exportcsv — export this week's responses\n")
		sb.WriteString("/listweeks — list all weeks' sheets\n")
		sb.WriteString("/broadcast <message> — message all participants\n")
	}
	if b.app.Admins.IsMain(userID) {
		sb.WriteString("/addadmin <id> — register a sub-admin\n")
		sb.WriteString("/removeadmin <id> — remove a sub-admin\n")
		sb.WriteString("/listadmins — list sub-admins\n")
		sb.WriteString("/editquestions — list or edit the questions\n")
	}
	b.reply(chatID, sb.String())
}
