// Command newsdesk is a CLI for exercising the assistant gateway.
//
// Usage:
//
//	newsdesk create  --role analyst [--view analyst_editor]
//	newsdesk status  --session-id SID
//	newsdesk send    --session-id SID --message "save my draft"
//	newsdesk confirm --session-id SID
//	newsdesk cancel  --session-id SID
//	newsdesk watch   --session-id SID
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

var apiURL = envOr("NEWSDESK_API_URL", "http://localhost:8080")

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create":
		cmdCreate(os.Args[2:])
	case "status":
		cmdStatus(os.Args[2:])
	case "send":
		cmdSend(os.Args[2:])
	case "confirm":
		cmdResolve(os.Args[2:], "confirm")
	case "cancel":
		cmdResolve(os.Args[2:], "cancel")
	case "watch":
		cmdWatch(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: newsdesk <create|status|send|confirm|cancel|watch> [flags]")
	os.Exit(1)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cmdCreate(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	role := fs.String("role", "", "platform role (required)")
	view := fs.String("view", "", "initial view to mount")
	_ = fs.Parse(args)

	if *role == "" {
		fs.Usage()
		os.Exit(1)
	}

	printJSON(post("/api/v1/sessions", map[string]any{"role": *role, "view": *view}))
}

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	sid := fs.String("session-id", "", "session ID (required)")
	_ = fs.Parse(args)

	if *sid == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := http.Get(apiURL + "/api/v1/sessions/" + *sid)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	printJSON(resp)
}

func cmdSend(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	sid := fs.String("session-id", "", "session ID (required)")
	message := fs.String("message", "", "chat message (required)")
	_ = fs.Parse(args)

	if *sid == "" || *message == "" {
		fs.Usage()
		os.Exit(1)
	}

	printJSON(post("/api/v1/sessions/"+*sid+"/messages", map[string]any{"message": *message}))
}

func cmdResolve(args []string, verb string) {
	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	sid := fs.String("session-id", "", "session ID (required)")
	_ = fs.Parse(args)

	if *sid == "" {
		fs.Usage()
		os.Exit(1)
	}

	printJSON(post("/api/v1/sessions/"+*sid+"/"+verb, map[string]any{}))
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	sid := fs.String("session-id", "", "session ID (required)")
	_ = fs.Parse(args)

	if *sid == "" {
		fs.Usage()
		os.Exit(1)
	}

	resp, err := http.Get(apiURL + "/api/v1/sessions/" + *sid + "/stream")
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("stream error: %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			fmt.Println(line)
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		log.Fatalf("stream read error: %v", err)
	}
}

func post(path string, body map[string]any) *http.Response {
	data, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(apiURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	return resp
}

func printJSON(resp *http.Response) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
