package telegram

import (
	"testing"

	"github.com/m3rciful/quizbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func nopHandler(tele.Context) error { return nil }

func cmdFixture() commands.Command {
	return commands.Command{Handler: nopHandler, Description: "test"}
}

func TestMatchCallbackExactAndPrefix(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("TAKE_QUIZ", nopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallbackPrefix("PAGE_", nopHandler); err != nil {
		t.Fatalf("register prefix: %v", err)
	}

	key, payload, h, ok := reg.MatchCallback("TAKE_QUIZ")
	if !ok || h == nil || key != "TAKE_QUIZ" || payload != "" {
		t.Fatalf("exact match = (%q,%q,%v)", key, payload, ok)
	}

	key, payload, h, ok = reg.MatchCallback("PAGE_3")
	if !ok || h == nil || key != "PAGE_" || payload != "3" {
		t.Fatalf("prefix match = (%q,%q,%v)", key, payload, ok)
	}

	if _, _, _, ok := reg.MatchCallback("NOPE_1"); ok {
		t.Fatal("unknown payload should not match")
	}
}

func TestRegisterCallbackRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("FINISH", nopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("FINISH", nopHandler); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if err := reg.RegisterCallback("", nopHandler); err == nil {
		t.Fatal("empty key should fail")
	}
	if err := reg.RegisterCallback("X", nil); err == nil {
		t.Fatal("nil handler should fail")
	}
}

func TestLookupCommandMatchesFirstWord(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/addadmin", cmdFixture())

	name, cmd, ok := reg.LookupCommand("/addadmin 123456")
	if !ok || name != "/addadmin" || cmd.Handler == nil {
		t.Fatalf("lookup = (%q,%v)", name, ok)
	}
	if _, _, ok := reg.LookupCommand("/unknown"); ok {
		t.Fatal("unknown command should not match")
	}
	if _, _, ok := reg.LookupCommand("   "); ok {
		t.Fatal("blank text should not match")
	}
}

func TestListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", cmdFixture())
	hidden := cmdFixture()
	hidden.Hidden = true
	reg.RegisterCommand("/addadmin", hidden)

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("visible = %+v, want only /start", visible)
	}
	if all := reg.ListCommands(false); len(all) != 2 {
		t.Fatalf("all = %d commands, want 2", len(all))
	}
}
