package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hazyhaar/maktaba/pkg/catalog"
	"github.com/hazyhaar/maktaba/pkg/kit"
)

// User-facing messages.
const (
	msgNoBooks       = "لا توجد كتب حالياً."
	msgPickScholar   = "اختر اسم العالم لعرض كتبه:"
	msgNoBooksFor    = "لا توجد كتب لهذا العالم."
	msgFileNotFound  = "لم يتم العثور على الملف."
	msgAddPrompt     = "أرسل الكتاب بصيغة PDF مع عنوانه واسم العالم بهذا الشكل:\nالشيخ: ...\nالعنوان: ..."
	msgDeletePrompt  = "أرسل اسم العالم والعنوان بهذا الشكل:\nالشيخ: ...\nالعنوان: ..."
	msgBadCaption    = "يرجى كتابة الوصف بالشكل الصحيح."
	msgDeleted       = "تم حذف الكتاب بنجاح."
	msgNotDeleted    = "لم أجد هذا الكتاب في الفهرس."
	msgDuplicate     = "هذا الكتاب موجود مسبقاً."
	msgNoMatch       = "لم أجد كتاباً مطابقاً."
	msgDidYouMean    = "لم أجد الكتاب. هل تقصد:"
	msgInternalError = "حدث خطأ، حاول مرة أخرى."
)

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	ctx = kit.WithTransport(kit.WithUserID(kit.WithChatID(ctx, m.Chat.ID), userID(m)), "telegram")

	switch {
	case m.IsCommand():
		b.handleCommand(ctx, m)
	case m.Document != nil:
		b.handleDocument(ctx, m)
	case m.Text != "" && hasLabels(m.Text):
		b.handleDelete(ctx, m)
	case m.Text != "":
		b.handleQuery(ctx, m)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		b.sendScholarList(ctx, m.Chat.ID)
	case "add":
		if b.isAdmin(userID(m)) {
			b.reply(m.Chat.ID, msgAddPrompt)
		}
	case "delete":
		if b.isAdmin(userID(m)) {
			b.reply(m.Chat.ID, msgDeletePrompt)
		}
	}
}

// sendScholarList shows every scholar as a button, two per row.
func (b *Bot) sendScholarList(ctx context.Context, chatID int64) {
	scholars, err := b.svc.Scholars(ctx)
	if err != nil {
		b.logger.Error("list scholars", "error", err)
		b.reply(chatID, msgInternalError)
		return
	}
	if len(scholars) == 0 {
		b.reply(chatID, msgNoBooks)
		return
	}

	var buttons []tgbotapi.InlineKeyboardButton
	for _, s := range scholars {
		tok := b.callbacks.put(callbackPayload{Kind: kindScholar, Scholar: s})
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(s, tok))
	}

	msg := tgbotapi.NewMessage(chatID, msgPickScholar)
	msg.ReplyMarkup = keyboardRows(buttons, 2)
	b.send(msg)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Always ack so the client stops its spinner.
	if _, err := b.tg.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", "error", err)
	}
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	ctx = kit.WithTransport(kit.WithUserID(kit.WithChatID(ctx, chatID), cq.From.ID), "telegram")

	p, ok := b.callbacks.get(cq.Data)
	if !ok {
		// Token from before a restart or evicted; reopen the list.
		b.sendScholarList(ctx, chatID)
		return
	}

	switch p.Kind {
	case kindScholar:
		b.sendTitleList(ctx, chatID, p.Scholar)
	case kindBook:
		b.sendBook(ctx, chatID, p.Scholar, p.Title)
	}
}

// sendTitleList shows one scholar's books as buttons.
func (b *Bot) sendTitleList(ctx context.Context, chatID int64, scholar string) {
	titles, err := b.svc.Titles(ctx, scholar)
	if err != nil {
		b.logger.Error("list titles", "scholar", scholar, "error", err)
		b.reply(chatID, msgInternalError)
		return
	}
	if len(titles) == 0 {
		b.reply(chatID, msgNoBooksFor)
		return
	}

	var buttons []tgbotapi.InlineKeyboardButton
	for _, title := range titles {
		tok := b.callbacks.put(callbackPayload{Kind: kindBook, Scholar: scholar, Title: title})
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(title, tok))
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("كتب الشيخ %s:", scholar))
	msg.ReplyMarkup = keyboardRows(buttons, 2)
	b.send(msg)
}

// sendBook delivers the PDF for a resolved pair.
func (b *Bot) sendBook(ctx context.Context, chatID int64, scholar, title string) {
	url, found, err := b.svc.Locator(ctx, scholar, title)
	if err != nil {
		b.logger.Error("locator", "scholar", scholar, "title", title, "error", err)
		b.reply(chatID, msgInternalError)
		return
	}
	if !found {
		b.reply(chatID, msgFileNotFound)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileURL(url))
	doc.Caption = title
	b.send(doc)
}

// handleQuery resolves free text through the shared endpoint and either
// sends the book or offers suggestions.
func (b *Bot) handleQuery(ctx context.Context, m *tgbotapi.Message) {
	resp, err := b.ep.ResolveQuery(ctx, m.Text)
	if err != nil {
		b.logger.Error("resolve", "query", m.Text, "error", err)
		b.reply(m.Chat.ID, msgInternalError)
		return
	}

	if resp.Matched {
		b.sendBook(ctx, m.Chat.ID, resp.Scholar, resp.Title)
		return
	}
	if len(resp.Suggestions) == 0 {
		b.reply(m.Chat.ID, msgNoMatch)
		return
	}

	var buttons []tgbotapi.InlineKeyboardButton
	for i, p := range resp.Suggestions {
		if i >= b.suggestN {
			break
		}
		tok := b.callbacks.put(callbackPayload{Kind: kindBook, Scholar: p.Scholar, Title: p.Title})
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(p.Title, tok))
	}
	msg := tgbotapi.NewMessage(m.Chat.ID, msgDidYouMean)
	msg.ReplyMarkup = keyboardRows(buttons, 1)
	b.send(msg)
}

// handleDocument runs the admin add flow: labeled caption + PDF.
func (b *Bot) handleDocument(ctx context.Context, m *tgbotapi.Message) {
	scholar, title, err := parseCaption(m.Caption)
	if err != nil {
		b.reply(m.Chat.ID, msgBadCaption)
		return
	}

	file, err := b.tg.GetFile(tgbotapi.FileConfig{FileID: m.Document.FileID})
	if err != nil {
		b.logger.Error("get file", "error", err)
		b.reply(m.Chat.ID, msgInternalError)
		return
	}

	resp, err := b.addBook(ctx, &addReq{
		scholar: scholar,
		title:   title,
		fileURL: file.Link(b.tg.Token),
	})
	switch {
	case errors.Is(err, kit.ErrUnauthorized):
		return // silent, as for every admin command
	case errors.Is(err, catalog.ErrDuplicate):
		b.reply(m.Chat.ID, msgDuplicate)
		return
	case err != nil:
		b.logger.Error("add book", "scholar", scholar, "title", title, "error", err)
		b.reply(m.Chat.ID, msgInternalError)
		return
	}

	book := resp.(catalog.Book)
	b.reply(m.Chat.ID, fmt.Sprintf("تمت إضافة الكتاب %q تحت %q بنجاح.", book.Title, book.Scholar))
}

// handleDelete runs the admin delete flow: a labeled text message.
func (b *Bot) handleDelete(ctx context.Context, m *tgbotapi.Message) {
	scholar, title, err := parseCaption(m.Text)
	if err != nil {
		b.reply(m.Chat.ID, msgBadCaption)
		return
	}

	resp, err := b.removeBook(ctx, &removeReq{scholar: scholar, title: title})
	switch {
	case errors.Is(err, kit.ErrUnauthorized):
		return
	case err != nil:
		b.logger.Error("remove book", "scholar", scholar, "title", title, "error", err)
		b.reply(m.Chat.ID, msgInternalError)
		return
	}

	if resp.(int64) == 0 {
		b.reply(m.Chat.ID, msgNotDeleted)
		return
	}
	b.reply(m.Chat.ID, msgDeleted)
}

// keyboardRows lays buttons out perRow at a time.
func keyboardRows(buttons []tgbotapi.InlineKeyboardButton, perRow int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := perRow
		if n > len(buttons) {
			n = len(buttons)
		}
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func userID(m *tgbotapi.Message) int64 {
	if m.From != nil {
		return m.From.ID
	}
	return 0
}
