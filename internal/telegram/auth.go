package telegram

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// promptTimeout bounds how long we wait for the operator to type a code or
// password during interactive authentication.
const promptTimeout = 2 * time.Minute

// consoleAuth implements auth.UserAuthenticator for first-run authentication.
// The verification code and optional 2FA password are read from the terminal;
// prompts go to stderr so stdio MCP transport framing stays clean.
type consoleAuth struct {
	phone string
}

func (a consoleAuth) Phone(_ context.Context) (string, error) {
	return a.phone, nil
}

func (a consoleAuth) Code(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	return promptLine(ctx, "Enter authentication code: ")
}

func (a consoleAuth) Password(ctx context.Context) (string, error) {
	return promptLine(ctx, "Enter 2FA password: ")
}

func (a consoleAuth) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

func (a consoleAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("signing up new accounts is not supported")
}

// promptLine reads one line from stdin with a timeout, so a forgotten prompt
// cannot hang the process forever.
func promptLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	lineCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			errCh <- fmt.Errorf("failed to read input: %w", err)
			return
		}
		lineCh <- strings.TrimSpace(line)
	}()

	select {
	case line := <-lineCh:
		return line, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("input cancelled: %w", ctx.Err())
	case <-time.After(promptTimeout):
		return "", errors.New("input timeout")
	}
}
