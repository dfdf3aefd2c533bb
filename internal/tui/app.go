package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/dmelnik/chatty/internal/bus"
	"github.com/dmelnik/chatty/internal/status"
	intsync "github.com/dmelnik/chatty/internal/sync"
	"github.com/dmelnik/chatty/internal/thread"
	"github.com/dmelnik/chatty/internal/tui/keys"
	"github.com/dmelnik/chatty/internal/tui/model"
	"github.com/dmelnik/chatty/internal/tui/ui"
	"github.com/dmelnik/chatty/internal/tui/views"
)

// App is the main TUI application shell. It renders the controllers'
// state and translates key events into controller intents; it holds no
// chat state of its own.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	registry *keys.Registry
	flash    *model.Flash

	sync   *intsync.Controller
	thread *thread.Controller
	bus    *bus.Bus
	logger *zap.Logger

	statusBar *views.StatusBar
	chatList  *views.ChatList
	msgView   *views.MessageView
	composer  *views.Composer
	searchBar *views.SearchBar
	chatForm  *views.ChatForm
	confirm   *views.Confirm

	chatsFlex *tview.Flex

	ctx    context.Context
	cancel context.CancelFunc

	query    string
	editing  string // chat id under edit; "" means the form creates
	deleting string // chat id pending delete confirmation
	autoOn   bool
}

// NewApp creates the TUI application.
func NewApp(sc *intsync.Controller, tc *thread.Controller, b *bus.Bus, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	ui.Apply(ui.DefaultTheme())

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		registry:  keys.NewRegistry(),
		flash:     &model.Flash{},
		sync:      sc,
		thread:    tc,
		bus:       b,
		logger:    logger,
		statusBar: views.NewStatusBar(),
		chatList:  views.NewChatList(),
		msgView:   views.NewMessageView(),
		composer:  views.NewComposer(),
		searchBar: views.NewSearchBar(),
		chatForm:  views.NewChatForm(),
		confirm:   views.NewConfirm(),
		ctx:       ctx,
		cancel:    cancel,
	}

	// A chat deleted remotely while open falls back to the list.
	sc.SetOnSelectionCleared(func(id string) {
		tc.Deactivate()
		a.setFlash("Chat was deleted")
		a.app.QueueUpdateDraw(func() {
			a.showChats()
		})
	})

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.Global(&keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Hint: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.Global(&keys.Action{
		Rune: 't', Key: tcell.KeyRune,
		Hint: "t:auto", Visible: true,
		Handler: func() { a.toggleAuto() },
	})

	a.registry.Page("chats", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Hint: "a:add", Visible: true,
		Handler: func() { a.showForm("") },
	})
	a.registry.Page("chats", &keys.Action{
		Rune: 'e', Key: tcell.KeyRune,
		Hint: "e:edit", Visible: true,
		Handler: func() {
			if id := a.chatList.SelectedChat(); id != "" {
				a.showForm(id)
			}
		},
	})
	a.registry.Page("chats", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Hint: "d:delete", Visible: true,
		Handler: func() {
			if id := a.chatList.SelectedChat(); id != "" {
				a.showConfirm(id)
			}
		},
	})
	a.registry.Page("chats", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Hint: "/:search", Visible: true,
		Handler: func() { a.showSearch() },
	})
}

func (a *App) setupCallbacks() {
	a.chatList.SetSelectedFunc(func(row, col int) {
		if id := a.chatList.SelectedChat(); id != "" {
			a.openChat(id)
		}
	})

	a.composer.SetOnSend(func(text string) {
		go func() {
			if err := a.thread.Send(a.ctx, text); err != nil {
				a.setFlash("Send failed: " + err.Error())
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.composer.SetText("")
			})
		}()
	})

	a.searchBar.SetOnQuery(func(query string) {
		a.query = query
		a.refreshChats()
	})
	a.searchBar.SetOnClose(func(keepQuery bool) {
		if !keepQuery {
			a.query = ""
			a.searchBar.SetText("")
		}
		a.chatsFlex.ResizeItem(a.searchBar, 0, 0)
		a.refreshChats()
		a.app.SetFocus(a.chatList)
	})

	a.chatForm.SetOnSave(func(firstName, lastName string) {
		editing := a.editing
		a.closeModal("form")
		go func() {
			var err error
			if editing == "" {
				err = a.sync.Create(a.ctx, firstName, lastName)
			} else {
				err = a.sync.Update(a.ctx, editing, firstName, lastName)
			}
			if err != nil {
				a.setFlash("Save failed: " + err.Error())
			}
		}()
	})
	a.chatForm.SetOnCancel(func() {
		a.closeModal("form")
	})

	a.confirm.SetOnDone(func(confirmed bool) {
		id := a.deleting
		a.deleting = ""
		a.closeModal("confirm")
		if !confirmed || id == "" {
			return
		}
		go func() {
			if err := a.sync.Delete(a.ctx, id); err != nil {
				a.setFlash("Delete failed: " + err.Error())
			}
		}()
	})
}

func (a *App) setupLayout() {
	a.chatsFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.searchBar, 0, 0, false).
		AddItem(a.chatList, 0, 1, true)

	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgView, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("chats", a.chatsFlex, true, true)
	a.pages.AddPage("chat", chatFlex, true, false)
	a.pages.AddPage("form", center(a.chatForm, 46, 9), true, false)
	a.pages.AddPage("confirm", a.confirm, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "chat":
				a.closeChat()
				return nil
			case "form", "confirm":
				a.deleting = ""
				a.closeModal(currentPage)
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *tview.Button:
			return event
		}
		if currentPage == "form" || currentPage == "confirm" {
			return event
		}

		// 'i' focuses the composer (only when not already in an input field).
		if currentPage == "chat" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.Handle(currentPage, event) {
			return nil
		}

		return event
	})
}

func (a *App) openChat(id string) {
	chat, ok := a.sync.Get(id)
	if !ok {
		return
	}
	a.sync.Select(id)
	a.thread.Activate(a.ctx, id)

	a.msgView.SetChatName(chat.FullName())
	a.msgView.Update(nil, false)
	a.pages.SwitchToPage("chat")
	a.app.SetFocus(a.composer.InputField)
}

func (a *App) closeChat() {
	a.thread.Deactivate()
	a.sync.Deselect()
	a.showChats()
}

func (a *App) showChats() {
	a.pages.SwitchToPage("chats")
	a.app.SetFocus(a.chatList)
}

func (a *App) showSearch() {
	a.chatsFlex.ResizeItem(a.searchBar, 1, 0)
	a.app.SetFocus(a.searchBar.InputField)
}

func (a *App) showForm(id string) {
	a.editing = id
	title, first, last := "New Chat", "", ""
	if id != "" {
		chat, ok := a.sync.Get(id)
		if !ok {
			return
		}
		title, first, last = "Edit Chat", chat.FirstName, chat.LastName
	}
	a.chatForm.Show(title, first, last)
	a.pages.ShowPage("form")
	a.app.SetFocus(a.chatForm)
}

func (a *App) showConfirm(id string) {
	chat, ok := a.sync.Get(id)
	if !ok {
		return
	}
	a.deleting = id
	a.confirm.SetPrompt("Delete chat with " + chat.FullName() + "?")
	a.pages.ShowPage("confirm")
	a.app.SetFocus(a.confirm)
}

func (a *App) closeModal(name string) {
	a.pages.HidePage(name)
	a.app.SetFocus(a.chatList)
}

func (a *App) toggleAuto() {
	next := !a.autoOn
	go func() {
		msg, err := a.sync.ToggleAutoMessages(a.ctx, next)
		if err != nil {
			a.setFlash("Toggle failed: " + err.Error())
			return
		}
		a.autoOn = next
		if msg == "" {
			msg = "Auto messages toggled"
		}
		a.setFlash(msg)
	}()
}

func (a *App) refreshChats() {
	a.chatList.Update(a.sync.Filter(a.query), a.query)
}

// setFlash stores a transient notification and schedules a redraw.
// Never call it from inside a queued update.
func (a *App) setFlash(msg string) {
	a.flash.Set(msg, model.DefaultTTL)
	a.app.QueueUpdateDraw(func() {
		a.statusBar.SetFlash(msg)
	})
}

// Run starts the render loop. The controllers must already be started;
// the app only reacts to their bus signals.
func (a *App) Run() error {
	stateCh, unsubState := a.bus.Subscribe("state.", 256)
	pushCh, unsubPush := a.bus.Subscribe("push.", 16)
	go func() {
		defer unsubState()
		defer unsubPush()
		for {
			select {
			case evt := <-stateCh:
				a.handleEvent(evt)
			case evt := <-pushCh:
				a.handleEvent(evt)
			case <-a.ctx.Done():
				return
			}
		}
	}()

	go a.tickLoop()

	a.refreshChats()
	a.logger.Info("tui started")
	defer a.logger.Info("tui exited")
	return a.app.Run()
}

// handleEvent reacts to controller refresh signals. Remote events are
// not handled here; the controllers merge them first and re-signal.
func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindChatsChanged:
		a.app.QueueUpdateDraw(func() {
			a.refreshChats()
		})
	case bus.KindThreadChanged:
		a.app.QueueUpdateDraw(func() {
			a.msgView.Update(a.thread.Messages(), a.thread.PendingAuto())
		})
	case bus.KindFlash:
		if msg, ok := evt.Payload.(string); ok {
			a.setFlash(msg)
		}
	case bus.KindPushStatus:
		change, ok := evt.Payload.(status.Change)
		if !ok {
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetConn(change.To)
		})
		if change.To == status.Degraded {
			a.setFlash("Live updates unavailable")
		}
	}
}

// tickLoop re-renders the status bar so the clock advances and expired
// flashes disappear.
func (a *App) tickLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.app.QueueUpdateDraw(func() {
				a.statusBar.SetFlash(a.flash.Get())
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// center wraps a primitive in a fixed-size centered layout for modal
// pages.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
