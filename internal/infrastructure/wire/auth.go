package wire

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

const (
	challengeSize = 32
)

var (
	challengePrefix = []byte("#CHALLENGE#")
	welcomeMsg      = []byte("#WELCOME#")
	failureMsg      = []byte("#FAILURE#")
)

var ErrAuthFailed = errors.New("shared secret authentication failed")

// ServerHandshake взаимная аутентификация со стороны принимающего узла
func ServerHandshake(rw io.ReadWriter, secret []byte) error {
	if err := deliverChallenge(rw, secret); err != nil {
		return err
	}
	return answerChallenge(rw, secret)
}

// ClientHandshake взаимная аутентификация со стороны подключающегося узла
func ClientHandshake(rw io.ReadWriter, secret []byte) error {
	if err := answerChallenge(rw, secret); err != nil {
		return err
	}
	return deliverChallenge(rw, secret)
}

func deliverChallenge(rw io.ReadWriter, secret []byte) error {
	nonce := make([]byte, challengeSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate challenge: %w", err)
	}

	if err := WriteFrame(rw, append(append([]byte{}, challengePrefix...), nonce...)); err != nil {
		return err
	}

	response, err := ReadFrame(rw)
	if err != nil {
		return fmt.Errorf("failed to read challenge response: %w", err)
	}

	if !hmac.Equal(response, digest(secret, nonce)) {
		_ = WriteFrame(rw, failureMsg)
		return ErrAuthFailed
	}
	return WriteFrame(rw, welcomeMsg)
}

func answerChallenge(rw io.ReadWriter, secret []byte) error {
	msg, err := ReadFrame(rw)
	if err != nil {
		return fmt.Errorf("failed to read challenge: %w", err)
	}
	if !bytes.HasPrefix(msg, challengePrefix) {
		return fmt.Errorf("%w: unexpected challenge message", ErrAuthFailed)
	}

	if err := WriteFrame(rw, digest(secret, msg[len(challengePrefix):])); err != nil {
		return err
	}

	verdict, err := ReadFrame(rw)
	if err != nil {
		return fmt.Errorf("failed to read handshake verdict: %w", err)
	}
	if !bytes.Equal(verdict, welcomeMsg) {
		return ErrAuthFailed
	}
	return nil
}

func digest(secret, nonce []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(nonce)
	return mac.Sum(nil)
}
