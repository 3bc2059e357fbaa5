package commands

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"chesssim/internal/client/display"
	"chesssim/internal/client/session"
	"chesssim/internal/player"
	"chesssim/internal/service"
	apihttp "chesssim/internal/transport/http"
)

func newSession(t *testing.T, answers ...string) (*session.Session, *bytes.Buffer) {
	t.Helper()
	svc := service.New(nil)
	app := apihttp.NewFiberApp(svc, apihttp.Options{RateLimit: -1, Quiet: true})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
		svc.Close()
	})

	var out bytes.Buffer
	in := player.NewLineSource(strings.NewReader(strings.Join(answers, "\n")+"\n"), &out)
	return session.New("http://"+ln.Addr().String(), in, &out), &out
}

func expect(t *testing.T, out *bytes.Buffer, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out.String(), p) {
			t.Fatalf("output lacks %q:\n%s", p, out.String())
		}
	}
	out.Reset()
}

func TestGameCommands(t *testing.T) {
	s, out := newSession(t, "human", "ai", "standard", "", "", "1")
	r := NewRegistry(s)

	if !r.Execute("new") {
		t.Fatal("new exited")
	}
	expect(t, out, "Game created: ", "Current game set to: ")
	if s.CurrentGame == "" || s.CurrentGameState.Players.Black != "ai" {
		t.Fatalf("session = %+v", s)
	}

	r.Execute("moves")
	expect(t, out, "White"+display.Reset+" to move (12): ")

	r.Execute("m a2a3")
	expect(t, out, "Move accepted", "Computer's turn", "Computer played: ", "(depth 1,")
	if s.LastMoveCount != 2 {
		t.Fatalf("LastMoveCount = %d", s.LastMoveCount)
	}

	r.Execute("show")
	expect(t, out, "8x8 | Turn: ", "History: 1.a2a3 ", "Players: White=human Black=ai")

	r.Execute("board")
	expect(t, out, "   abcdefgh\n 8 ")

	r.Execute("state")
	expect(t, out, `"gameId": "`+s.CurrentGame+`"`)

	r.Execute("undo 2")
	expect(t, out, "Undid 2 move(s)")
	if s.LastMoveCount != 0 {
		t.Fatalf("LastMoveCount after undo = %d", s.LastMoveCount)
	}

	r.Execute("players random random")
	expect(t, out, "Players: White=random Black=random")

	r.Execute("c")
	expect(t, out, "Computer played: ")

	// a stale count returns without waiting
	s.LastMoveCount = 0
	r.Execute("poll")
	expect(t, out, "Game updated!")

	r.Execute("delete")
	expect(t, out, "Game deleted: ")
	if s.CurrentGame != "" {
		t.Fatalf("current game %s kept after delete", s.CurrentGame)
	}

	r.Execute("move a2a3")
	expect(t, out, "Error: no current game")
}

func TestUtilityCommands(t *testing.T) {
	s, out := newSession(t)
	r := NewRegistry(s)

	r.Execute("health")
	expect(t, out, "Status:  healthy", "Storage: disabled")

	r.Execute("frobnicate")
	expect(t, out, "Unknown command: frobnicate")

	r.Execute("help")
	expect(t, out, "Game Commands:", "Utility Commands:", "sim")

	r.Execute("help undo")
	expect(t, out, "Usage: undo [count]")

	r.Execute("sim capture random 3 25")
	expect(t, out, "Games:       3")

	r.Execute("sim human random 3")
	expect(t, out, "Error: 400 INVALID_REQUEST")

	r.Execute("url")
	expect(t, out, "Current API URL: http://127.0.0.1:")

	if r.Execute("exit") {
		t.Fatal("exit kept the loop running")
	}
	expect(t, out, "Goodbye!")

	if got := r.Names(); len(got) != 18 {
		t.Fatalf("registered %d commands: %v", len(got), got)
	}
}
