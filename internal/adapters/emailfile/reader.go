package emailfile

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"strings"

	"github.com/mikey/mailguard/internal/utils"
	"go.uber.org/zap"
)

// maxMessageSize bounds how much of a message file is read
const maxMessageSize = 10 << 20

// headerOrder is the order in which the headers relevant to analysis are kept
var headerOrder = []string{
	"Return-Path",
	"Received",
	"Received-SPF",
	"Authentication-Results",
	"DKIM-Signature",
	"From",
	"Reply-To",
	"To",
	"Date",
	"Message-ID",
	"Subject",
}

// Reader turns saved messages into the text submitted for analysis
type Reader struct {
	logger    *zap.Logger
	processor *utils.TextProcessor
}

// NewReader creates a new message reader
func NewReader(logger *zap.Logger, processor *utils.TextProcessor) *Reader {
	return &Reader{
		logger:    logger,
		processor: processor,
	}
}

// ReadFile loads a message from path
func (r *Reader) ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open message: %w", err)
	}
	defer f.Close()

	return r.Read(f)
}

// Read parses a message and returns its analysis headers followed by a blank
// line and its plain text body. Input that is not a mail message is
// returned unchanged.
func (r *Reader) Read(src io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxMessageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}

	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		r.logger.Debug("Input is not a mail message, using it as is", zap.Error(err))
		return r.processor.SanitizeUTF8(string(data)), nil
	}

	body, err := extractText(msg.Header.Get("Content-Type"), msg.Body)
	if err != nil {
		return "", fmt.Errorf("failed to extract message body: %w", err)
	}

	var out strings.Builder
	for _, name := range headerOrder {
		for _, value := range msg.Header[name] {
			fmt.Fprintf(&out, "%s: %s\n", name, decodeHeader(value))
		}
	}
	out.WriteString("\n")
	out.WriteString(body)

	r.logger.Debug("Parsed message",
		zap.String("subject", decodeHeader(msg.Header.Get("Subject"))),
		zap.Int("body_length", len(body)))

	return r.processor.ProcessText(out.String(), maxMessageSize), nil
}

// extractText returns the text/plain content of a body, walking nested
// multipart containers
func extractText(contentType string, body io.Reader) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		content, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	mr := multipart.NewReader(body, params["boundary"])
	var text strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if text.Len() > 0 {
				return text.String(), nil
			}
			return "", err
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		switch {
		case strings.HasPrefix(partType, "multipart/"):
			nested, err := extractText(part.Header.Get("Content-Type"), part)
			if err != nil {
				continue
			}
			text.WriteString(nested)
		case partType == "" || strings.HasPrefix(partType, "text/plain"):
			content, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			text.Write(content)
			text.WriteString("\n")
		}
	}

	if text.Len() == 0 {
		return "[No text content found in multipart message]", nil
	}
	return text.String(), nil
}

func decodeHeader(value string) string {
	decoded, err := new(mime.WordDecoder).DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}
