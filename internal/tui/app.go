// Package tui is the terminal client: a WhatsApp Web style layout over the
// view model.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/nav"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/tui/keys"
	"github.com/matheus3301/wpplocal/internal/tui/model"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/matheus3301/wpplocal/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	vm       *model.ViewModel
	bus      *bus.Bus
	logger   *zap.Logger
	theme    *ui.Theme
	registry *keys.Registry
	flash    *ui.FlashModel
	profile  string

	root        *tview.Flex
	pages       *ui.Pages
	logo        *ui.Logo
	profileInfo *ui.ProfileInfo
	menu        *ui.Menu
	crumbs      *ui.Crumbs
	flashBar    *ui.FlashBar
	prompt      *ui.Prompt
	sidebar     *views.Sidebar

	loading    *loadingPage
	chats      *chatsPage
	chatList   *views.ConversationList
	chatWindow *views.ConversationWindow
	contacts   *views.ContactList
	profileV   *views.ProfileView
	help       *views.HelpView
	details    *views.ConversationInfo

	// base is the view whose page sits at the bottom of the stack.
	base nav.View

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application. profileName is shown in the header.
func NewApp(vm *model.ViewModel, b *bus.Bus, profileName string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := ui.DefaultTheme()
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:         tview.NewApplication(),
		vm:          vm,
		bus:         b,
		logger:      logger,
		theme:       theme,
		registry:    keys.NewRegistry(),
		flash:       ui.NewFlashModel(),
		profile:     profileName,
		pages:       ui.NewPages(),
		logo:        ui.NewLogo(theme),
		profileInfo: ui.NewProfileInfo(theme),
		menu:        ui.NewMenu(theme),
		crumbs:      ui.NewCrumbs(theme),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		sidebar:     views.NewSidebar(theme, viewLabels()),
		loading:     newLoadingPage(theme),
		chatList:    views.NewConversationList(theme),
		chatWindow:  views.NewConversationWindow(theme),
		contacts:    views.NewContactList(theme),
		profileV:    views.NewProfileView(theme),
		help:        views.NewHelpView(theme),
		details:     views.NewConversationInfo(theme),
		base:        nav.Loading,
		ctx:         ctx,
		cancel:      cancel,
	}
	a.chats = newChatsPage(a.chatList, a.chatWindow)

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func viewLabels() []string {
	labels := make([]string, len(nav.Views))
	for i, v := range nav.Views {
		labels[i] = viewLabel(v)
	}
	return labels
}

func viewLabel(v nav.View) string {
	s := string(v)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *App) setupBindings() {
	for i, v := range nav.Views {
		a.registry.AddGlobal(keys.Rune(rune('1'+i), viewLabel(v), func() { a.setView(v) }))
	}
	a.registry.AddGlobal(keys.Rune(':', "command", func() { a.showPrompt(ui.PromptCommand, "") }))
	a.registry.AddGlobal(keys.Rune('/', "search", func() { a.showPrompt(ui.PromptFilter, a.currentQuery()) }))
	a.registry.AddGlobal(keys.Rune('?', "help", func() { a.pushPage(a.help) }))
	a.registry.AddGlobal(keys.Rune('q', "quit", func() {
		if a.pages.Depth() > 1 {
			a.popPage()
			return
		}
		a.Stop()
	}))
	a.registry.AddGlobal(keys.Key(tcell.KeyEscape, "back", a.back))

	chats := a.chats.Name()
	a.registry.AddView(chats, keys.Rune('i', "compose", a.focusComposer))
	a.registry.AddView(chats, keys.Rune('n', "new chat", func() { a.setView(nav.Contacts) }))
	a.registry.AddView(chats, keys.Rune('d', "details", a.showDetails))
	a.registry.AddView(chats, keys.Key(tcell.KeyTab, "switch pane", func() {
		if a.chatWindow.HasChat() {
			a.focusComposer()
		}
	}))

	contacts := a.contacts.Name()
	a.registry.AddView(contacts, keys.Rune('a', "add contact", func() {
		a.contacts.ShowAddForm(true)
		a.app.SetFocus(a.contacts.FocusTarget())
	}))

	profile := a.profileV.Name()
	a.registry.AddView(profile, keys.Rune('e', "edit name", func() { a.app.SetFocus(a.profileV.NameField()) }))
	a.registry.AddView(profile, keys.Rune('a', "edit about", func() { a.app.SetFocus(a.profileV.AboutField()) }))
}

func (a *App) setupCallbacks() {
	a.chatList.SetOnSelect(func(chatID string) {
		a.do("open chat", func(ctx context.Context) error {
			return a.vm.SelectChat(ctx, chatID)
		}, a.focusComposer)
	})
	a.chatList.SetOnQuery(a.vm.SetChatQuery)
	a.chatList.Search().SetDoneFunc(func(tcell.Key) { a.app.SetFocus(a.chatList.Table()) })

	a.chatWindow.SetOnSend(func(text string) {
		a.do("send", func(ctx context.Context) error {
			return a.vm.SendMessage(ctx, text)
		}, nil)
	})
	a.chatWindow.SetOnBack(func() { a.app.SetFocus(a.chatList.Table()) })

	a.contacts.SetOnStartChat(func(contactID string) {
		a.do("start chat", func(ctx context.Context) error {
			_, _, err := a.vm.StartChat(ctx, contactID)
			return err
		}, a.focusComposer)
	})
	a.contacts.SetOnAdd(func(nickname string) {
		a.addContact(nickname)
		a.app.SetFocus(a.contacts.Table())
	})
	a.contacts.SetOnCancel(func() { a.app.SetFocus(a.contacts.Table()) })
	a.contacts.SetOnQuery(func(string) { a.renderContacts() })
	a.contacts.Search().SetDoneFunc(func(tcell.Key) { a.app.SetFocus(a.contacts.Table()) })

	a.profileV.SetOnName(func(name string) { a.updateProfile(store.UserUpdate{Username: &name}) })
	a.profileV.SetOnAbout(func(about string) { a.updateProfile(store.UserUpdate{Status: &about}) })
	a.profileV.SetOnDone(func() { a.app.SetFocus(a.profileV.FocusTarget()) })

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		case ui.PromptFilter:
			a.applyFilter(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.pages.SetOnChange(func(stack []ui.Component) {
		a.crumbs.Update(stack)
		if len(stack) > 0 {
			a.menu.Update(stack[len(stack)-1].Hints())
		}
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.logo, 18, 0, false).
		AddItem(a.profileInfo, 40, 0, false).
		AddItem(a.menu, 0, 1, false)

	body := tview.NewFlex().
		AddItem(a.sidebar, 16, 0, false).
		AddItem(a.pages, 0, 1, true)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.pages.Reset(a.loading)
	a.profileInfo.Update(nil)
	a.sidebar.Update("", "")

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Let text input widgets handle all keys normally.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *ui.Prompt:
			return event
		}
		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})
}

// Run loads the data and runs the UI until Stop or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	prev := a.cancel
	a.ctx, a.cancel = context.WithCancel(ctx)
	runCtx := a.ctx
	a.mu.Unlock()
	prev()

	go a.watch(runCtx)
	go func() {
		if err := a.vm.Init(runCtx); err != nil {
			a.logger.Error("initialize", zap.Error(err))
			a.flash.Err(err)
		}
		a.refresh(runCtx)
	}()

	defer a.Stop()
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	cancel()
	a.app.Stop()
}

func (a *App) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// watch redraws on model and navigation events and on flash changes.
func (a *App) watch(ctx context.Context) {
	modelCh, unsubModel := a.bus.Subscribe("model.", 32)
	defer unsubModel()
	viewCh, unsubView := a.bus.Subscribe("view.", 8)
	defer unsubView()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.app.Stop()
			return
		case <-modelCh:
			a.refresh(ctx)
		case <-viewCh:
			a.refresh(ctx)
		case <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.Current()) })
		case <-ticker.C:
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.Current()) })
		}
	}
}

// refresh reads the open chat's messages and redraws everything.
func (a *App) refresh(ctx context.Context) {
	msgs, err := a.vm.SelectedChatMessages(ctx)
	if err != nil {
		a.logger.Warn("load chat messages", zap.Error(err))
		a.flash.Err(err)
	}
	a.app.QueueUpdateDraw(func() { a.render(msgs) })
}

// do runs fn off the UI goroutine; failures go to the flash bar. then runs
// on the UI goroutine after success.
func (a *App) do(what string, fn func(ctx context.Context) error, then func()) {
	ctx := a.context()
	go func() {
		if err := fn(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			a.logger.Warn(what+" failed", zap.Error(err))
			a.flash.Err(fmt.Errorf("%s: %w", what, err))
			return
		}
		if then != nil {
			// Redraw first so then sees the new state.
			a.refresh(ctx)
			a.app.QueueUpdateDraw(then)
		}
	}()
}

func (a *App) setView(v nav.View) {
	if err := a.vm.SetView(v); err != nil {
		a.flash.Warn(err.Error())
	}
}

func (a *App) back() {
	if a.pages.Depth() > 1 {
		a.popPage()
		return
	}
	switch a.vm.ActiveView() {
	case nav.Chats:
		if a.vm.ShowChat() || a.vm.SelectedChatID() != "" {
			a.vm.BackToList()
		}
	case nav.Contacts:
		if a.contacts.Adding() {
			a.contacts.ShowAddForm(false)
			a.app.SetFocus(a.contacts.Table())
			return
		}
		a.setView(nav.Chats)
	case nav.Profile:
		a.setView(nav.Chats)
	}
}

func (a *App) focusComposer() {
	if a.vm.ActiveView() != nav.Chats || !a.chatWindow.HasChat() {
		return
	}
	for a.pages.Depth() > 1 {
		a.pages.Pop()
	}
	a.app.SetFocus(a.chatWindow.FocusTarget())
}

func (a *App) pushPage(c ui.Component) {
	if a.pages.Current() == c.Name() {
		return
	}
	a.pages.Push(c)
	a.app.SetFocus(c.FocusTarget())
}

func (a *App) popPage() {
	a.pages.Pop()
	if top := a.pages.Top(); top != nil {
		a.app.SetFocus(top.FocusTarget())
	}
}

func (a *App) showDetails() {
	id := a.chatList.SelectedChat()
	if id == "" {
		id = a.vm.SelectedChatID()
	}
	d := chatDetails(a.vm, id, time.Now())
	if d == nil {
		a.flash.Warn("No chat selected")
		return
	}
	a.details.Update(d)
	a.pushPage(a.details)
}

func (a *App) showPrompt(mode ui.PromptMode, initial string) {
	a.prompt.Activate(mode, initial)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	if top := a.pages.Top(); top != nil {
		a.app.SetFocus(top.FocusTarget())
	}
}

func (a *App) currentQuery() string {
	switch a.vm.ActiveView() {
	case nav.Contacts:
		return a.contacts.Query()
	default:
		return a.vm.ChatQuery()
	}
}

func (a *App) applyFilter(q string) {
	switch a.vm.ActiveView() {
	case nav.Contacts:
		a.contacts.SetQuery(q)
	case nav.Chats:
		a.vm.SetChatQuery(q)
	default:
		a.flash.Warn("Nothing to search here")
	}
}

func (a *App) updateProfile(u store.UserUpdate) {
	a.do("update profile", func(ctx context.Context) error {
		changed, err := a.vm.UpdateProfile(ctx, u)
		if err == nil && changed {
			a.flash.Info("Profile updated")
		}
		return err
	}, nil)
}

func (a *App) addContact(nickname string) {
	a.do("add contact", func(ctx context.Context) error {
		added, err := a.vm.AddContact(ctx, nickname)
		if err == nil && added {
			a.flash.Info("Added contact " + strings.TrimSpace(nickname))
		}
		return err
	}, nil)
}

func (a *App) runCommand(cmd Command) {
	cmd, err := cmd.Resolve()
	if err != nil {
		a.flash.Warn(err.Error())
		return
	}
	switch cmd.Name {
	case CmdChats:
		a.setView(nav.Chats)
	case CmdContacts:
		a.setView(nav.Contacts)
	case CmdProfile:
		a.setView(nav.Profile)
	case CmdNew:
		a.addContact(cmd.Args)
	case CmdChat:
		id := findChat(a.vm, cmd.Args)
		if id == "" {
			a.flash.Warn(fmt.Sprintf("No chat named %q", cmd.Args))
			return
		}
		a.setView(nav.Chats)
		a.do("open chat", func(ctx context.Context) error {
			return a.vm.SelectChat(ctx, id)
		}, a.focusComposer)
	case CmdDetails:
		a.showDetails()
	case CmdReload:
		a.do("reload", a.vm.Load, func() { a.flash.Info("Reloaded") })
	case CmdHelp:
		a.pushPage(a.help)
	case CmdQuit:
		a.Stop()
	}
}

// render redraws every view from the view model. Runs on the UI goroutine.
func (a *App) render(msgs []store.Message) {
	now := time.Now()
	user := a.vm.User()
	active := a.vm.ActiveView()

	a.profileInfo.Update(profileData(a.vm, a.profile))
	userName := ""
	if user != nil {
		userName = user.Username
	}
	label := ""
	if active != nav.Loading {
		label = viewLabel(active)
	}
	a.sidebar.Update(userName, label)

	a.chatList.SetQuery(a.vm.ChatQuery())
	a.chatList.Update(chatRows(a.vm, now))
	if chat := a.vm.SelectedChat(); chat != nil && a.vm.ShowChat() {
		a.chatWindow.Update(a.vm.ChatName(*chat), messageRows(msgs, user))
	} else {
		if a.chatWindow.HasChat() && a.app.GetFocus() == a.chatWindow.Composer() {
			a.app.SetFocus(a.chatList.Table())
		}
		a.chatWindow.ShowPlaceholder()
	}

	a.renderContacts()
	a.profileV.Update(profileRow(user, now))

	if user == nil {
		a.loading.Update(active)
	}
	a.switchBase(active)
	if top := a.pages.Top(); top != nil {
		a.menu.Update(top.Hints())
	}
}

func (a *App) renderContacts() {
	a.contacts.Update(contactRows(a.vm, a.contacts.Query()))
}

// switchBase puts the page of the active view at the bottom of the stack.
func (a *App) switchBase(v nav.View) {
	if v == a.base {
		return
	}
	a.base = v
	var c ui.Component
	switch v {
	case nav.Chats:
		c = a.chats
	case nav.Contacts:
		c = a.contacts
	case nav.Profile:
		c = a.profileV
	default:
		c = a.loading
	}
	a.pages.Reset(c)
	a.app.SetFocus(c.FocusTarget())
}
