package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"jobsift-engine/internal/ingest"
)

const (
	mailLookback = 3 // months; older mail is never considered
	mailMaxFetch = 50
)

// MailFetcher scans an IMAP mailbox for unseen job-alert messages and hands
// their bodies to the pipeline. Detection picks the parser per message, so
// mixed LinkedIn/Indeed/Greenhouse alert mail in one inbox works.
type MailFetcher struct {
	Addr     string // host:port
	Username string
	Password string
	Mailbox  string
	// SubjectAny filters messages by subject substring, case-insensitive.
	// Empty means every unseen message is considered.
	SubjectAny []string
}

func (m *MailFetcher) Name() string { return "mail" }

type mailMessage struct {
	uid     imap.UID
	subject string
	date    time.Time
	raw     []byte
}

// Fetch logs in, pulls unseen messages, and marks the ones it consumed as
// read. Subject-filtered-out messages stay unseen so another tool can have
// them.
func (m *MailFetcher) Fetch(ctx context.Context) ([]ingest.RawContent, error) {
	if m.Addr == "" || m.Username == "" || m.Password == "" {
		return nil, errors.New("imap addr/username/password are required")
	}

	c, err := m.dialAndLogin(ctx)
	if err != nil {
		return nil, err
	}
	defer logoutAndClose(c)

	mailbox := m.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	msgs, err := m.fetchUnseen(ctx, c)
	if err != nil {
		return nil, err
	}

	var (
		out      []ingest.RawContent
		consumed []imap.UID
	)
	for _, msg := range msgs {
		if !m.subjectMatches(msg.subject) {
			continue
		}
		body := messageBody(msg.raw)
		if strings.TrimSpace(body) == "" {
			continue
		}
		received := msg.date
		if received.IsZero() {
			received = time.Now().UTC()
		}
		out = append(out, ingest.RawContent{Body: body, ReceivedAt: received})
		consumed = append(consumed, msg.uid)
	}

	if err := markSeen(c, consumed); err != nil {
		// already have the bodies; next scan may re-pull, the merge dedups
		log.Printf("[fetch:mail] mark seen: %v", err)
	}
	return out, nil
}

func (m *MailFetcher) subjectMatches(subject string) bool {
	if len(m.SubjectAny) == 0 {
		return true
	}
	low := strings.ToLower(subject)
	for _, want := range m.SubjectAny {
		if want != "" && strings.Contains(low, strings.ToLower(want)) {
			return true
		}
	}
	return false
}

func (m *MailFetcher) dialAndLogin(ctx context.Context) (*imapclient.Client, error) {
	host := m.Addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}

	c, err := imapclient.DialTLS(m.Addr, &imapclient.Options{
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(m.Username, m.Password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

func (m *MailFetcher) fetchUnseen(ctx context.Context, c *imapclient.Client) ([]mailMessage, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -mailLookback, 0),
	}

	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > mailMaxFetch {
		uids = uids[:mailMaxFetch]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]mailMessage, 0, len(uids))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		msg := mailMessage{uid: buf.UID}
		if buf.Envelope != nil {
			msg.subject = buf.Envelope.Subject
			msg.date = buf.Envelope.Date
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			msg.raw = append([]byte(nil), b...)
		}
		out = append(out, msg)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

// markSeen flags consumed UIDs. Store has no Wait in go-imap v2; Close
// surfaces the final status.
func markSeen(c *imapclient.Client, uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	cmd := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap store add seen: %w", err)
	}
	return nil
}

func logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		log.Printf("[fetch:mail] logout: %v", err)
	}
	_ = c.Close()
}
