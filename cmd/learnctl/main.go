// learnctl is a terminal front end for the learning API.
//
// Usage: go run ./cmd/learnctl -api http://localhost:5000 [-mirror ~/.nihongo] [-timeout 20s]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"nihongo_backend/internal/client"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/quiz"
	"os"
	"strings"
	"time"
)

type driver struct {
	api     *client.Client
	mirror  client.Mirror
	model   quiz.Model
	timeout time.Duration
}

func main() {
	apiURL := flag.String("api", "http://localhost:5000", "API base URL")
	mirrorDir := flag.String("mirror", "", "directory for the local state mirror (disabled when empty)")
	timeout := flag.Duration("timeout", 20*time.Second, "per-command deadline, 0 to wait indefinitely")
	flag.Parse()

	d := &driver{
		api:     client.New(*apiURL, client.WithHTTPClient(&http.Client{})),
		model:   quiz.NewModel(),
		timeout: *timeout,
	}
	if *mirrorDir != "" {
		d.mirror = client.FileMirror{Dir: *mirrorDir}
	}

	fmt.Println(`Type "help" for commands.`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt(d.model))
		if !scanner.Scan() {
			return
		}
		msg, quit := parse(d.model, scanner.Text())
		if quit {
			return
		}
		if msg == nil {
			continue
		}
		d.dispatch(msg)
		render(os.Stdout, d.model)
	}
}

// dispatch applies msg and then runs the resulting commands in order, feeding
// their answers back as messages.
func (d *driver) dispatch(msg quiz.Msg) {
	queue := []quiz.Msg{msg}
	for len(queue) > 0 {
		var cmds []quiz.Command
		d.model, cmds = d.model.Update(queue[0])
		queue = queue[1:]
		for _, cmd := range cmds {
			if next := d.execute(cmd); next != nil {
				queue = append(queue, next)
			}
		}
	}

	if d.mirror != nil {
		if err := client.MirrorModel(d.mirror, d.model); err != nil {
			log.Printf("mirror: %v", err)
		}
	}
}

func (d *driver) execute(cmd quiz.Command) quiz.Msg {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return d.api.Run(ctx, cmd)
}

func prompt(m quiz.Model) string {
	if m.Username == "" {
		return "> "
	}
	return fmt.Sprintf("%s@%s> ", m.Username, m.View)
}

// parse turns an input line into a message. quit is true for "quit".
func parse(m quiz.Model, line string) (msg quiz.Msg, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch fields[0] {
	case "quit", "exit":
		return nil, true
	case "help":
		fmt.Println(helpText)
		return nil, false
	case "login":
		role := model.Student
		if len(fields) > 2 {
			role = model.UserRole(fields[2])
		}
		if len(fields) < 2 {
			return quiz.LoginRequested{}, false
		}
		return quiz.LoginRequested{Username: fields[1], Role: role}, false
	case "logout":
		return quiz.Logout{}, false
	case "home", "reload":
		return quiz.GoHome{}, false
	case "quiz":
		return quiz.StartQuiz{LessonID: lessonArg(m, arg)}, false
	case "cards":
		return quiz.StartFlashcards{LessonID: lessonArg(m, arg)}, false
	case "answer", "a":
		return quiz.Answer{Option: optionArg(m, arg)}, false
	case "flip":
		return quiz.FlipCard{}, false
	case "next":
		return quiz.NextCard{}, false
	case "bookmark":
		return quiz.BookmarkCard{}, false
	case "add":
		return quiz.AddLesson{Title: arg}, false
	case "rmlesson":
		return quiz.RemoveLesson{LessonID: lessonArg(m, arg)}, false
	case "rmuser":
		return quiz.RemoveUser{Username: arg}, false
	case "reset":
		return quiz.ResetAll{}, false
	}
	fmt.Printf("unknown command %q\n", fields[0])
	return nil, false
}

const helpText = `login <name> [student|teacher|admin]   log in or register
home                                    reload and show home
quiz <n|id>  cards <n|id>               start a quiz or flashcards
answer <n|text>  flip  next  bookmark   play
add <title>  rmlesson <n|id>            manage lessons
rmuser <name>  reset                    administer
logout  quit`
