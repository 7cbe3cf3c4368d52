package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/pevans/jobwizard/render"
	"github.com/pevans/jobwizard/wizard"
	"go.uber.org/zap"
)

func handleWizard(args []string) {
	fs := flag.NewFlagSet("wizard", flag.ExitOnError)
	fs.Parse(args)

	a := newApp()
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	id := uuid.New()
	sess := wizard.NewSession(id, a.trails()(id))
	a.logger.Debug("wizard session started", zap.Stringer("session", id))

	reply := a.service.Start(sess)
	buttons := printMessage(reply.Message)
	printWizardHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "quit", "exit", "q":
			return
		case "help":
			printWizardHelp()
			continue
		case "debug":
			fmt.Println(plainText(a.service.Debug(sess)))
			continue
		case "about":
			fmt.Println(plainText(a.service.About()))
			continue
		case "ping":
			fmt.Println(a.service.Ping())
			continue
		case "start":
			buttons = printMessage(a.service.Start(sess).Message)
			continue
		}

		data, err := resolveInput(input, buttons)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if data == "" {
			continue
		}

		reply, err := a.service.Handle(ctx, sess, data)
		if err != nil {
			if errors.Is(err, wizard.ErrInvalidTransition) {
				fmt.Println("That action is not available at this step.")
			} else {
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		if reply.Alert != "" {
			fmt.Printf("[%s]\n", reply.Alert)
		}
		buttons = printMessage(reply.Message)
	}
}

// resolveInput turns a button number or raw callback data into callback
// data. URL buttons resolve to an empty string after printing their link.
func resolveInput(input string, buttons []render.Button) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return input, nil
	}
	if n < 1 || n > len(buttons) {
		return "", fmt.Errorf("no button %d", n)
	}

	b := buttons[n-1]
	if b.URL != "" {
		fmt.Println(b.URL)
		return "", nil
	}
	return b.Data, nil
}

func printWizardHelp() {
	fmt.Println()
	fmt.Println("Enter a button number or callback data such as country:UA.")
	fmt.Println("Commands: start, debug, about, ping, help, quit")
}
