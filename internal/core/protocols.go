package core

import (
	"bytes"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// ProbeFailedError marks a protocol probe that produced no usable
// signature (timeout, short read, or a response that doesn't match the
// protocol's success condition). It is always local to C5/C6 — never
// propagated past the banner grabber.
type ProbeFailedError struct {
	Port int
}

func (e *ProbeFailedError) Error() string {
	return fmt.Sprintf("ProbeFailed(%d)", e.Port)
}

// probeResult is what a successful protocol probe produces.
type probeResult struct {
	Service string
	Banner  string
}

// protocolProbe is one entry of the C5 dispatch table: send an optional
// payload, read under budget, and decide success from the response.
type protocolProbe func(conn net.Conn, deadline time.Time) (probeResult, error)

// protocolProbes is the static port->probe dispatch table (spec.md §4.5).
// Built once; probes hold no state, so the same function value is reused
// across every call regardless of concurrency.
var protocolProbes = map[int]protocolProbe{
	22:   sshProbe,
	443:  tlsProbe,
	993:  tlsProbe,
	995:  tlsProbe,
	8443: tlsProbe,
	80:   httpProbe,
	8080: httpProbe,
	8000: httpProbe,
	3000: httpProbe,
	21:   ftpProbe,
	25:   smtpProbe,
	465:  smtpProbe,
	587:  smtpProbe,
	110:  pop3Probe,
	143:  imapProbe,
	53:   dnsProbe,
	3389: rdpProbe,
	5432: postgresProbe,
	3306: mysqlProbe,
	1433: mssqlProbe,
	139:  smbProbe,
	445:  smbProbe,
}

// lookupProbe returns the protocol probe registered for port, and whether
// one exists — callers fall through to the generic probe otherwise.
func lookupProbe(port int) (protocolProbe, bool) {
	p, ok := protocolProbes[port]
	return p, ok
}

func readWithDeadline(conn net.Conn, deadline time.Time, buf []byte) (int, error) {
	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	return conn.Read(buf)
}

func writeWithDeadline(conn net.Conn, deadline time.Time, payload []byte) error {
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

func firstLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return s
}

// --- SSH (port 22) ---------------------------------------------------------

func sshProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	buf := make([]byte, 256)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n == 0 {
		return probeResult{}, &ProbeFailedError{Port: 22}
	}
	resp := string(buf[:n])
	if !strings.HasPrefix(resp, "SSH-") {
		return probeResult{}, &ProbeFailedError{Port: 22}
	}
	return probeResult{Service: "SSH", Banner: firstLine(resp)}, nil
}

// --- TLS (443, 993, 995, 8443) ---------------------------------------------

// minimalClientHello builds the fixed ClientHello spec.md §4.5 calls for:
// handshake type 0x16, TLS 1.2 version fields, 32 zero random bytes, a
// zero-length session id, and a single cipher suite (0x0035), no
// compression.
func minimalClientHello() []byte {
	var hello bytes.Buffer
	hello.WriteByte(0x03) // client version major
	hello.WriteByte(0x03) // client version minor (TLS 1.2)
	hello.Write(make([]byte, 32))
	hello.WriteByte(0x00)           // session id length
	hello.Write([]byte{0x00, 0x02}) // cipher suites length
	hello.Write([]byte{0x00, 0x35}) // TLS_RSA_WITH_AES_256_CBC_SHA
	hello.Write([]byte{0x01, 0x00}) // compression methods length + null

	body := hello.Bytes()

	var handshake bytes.Buffer
	handshake.WriteByte(0x01) // ClientHello
	writeUint24(&handshake, len(body))
	handshake.Write(body)

	hsBody := handshake.Bytes()

	var record bytes.Buffer
	record.WriteByte(0x16) // handshake content type
	record.WriteByte(0x03)
	record.WriteByte(0x01) // record version TLS 1.0 (classic ClientHello record wrapper)
	record.Write([]byte{byte(len(hsBody) >> 8), byte(len(hsBody))})
	record.Write(hsBody)
	return record.Bytes()
}

func writeUint24(buf *bytes.Buffer, n int) {
	buf.WriteByte(byte(n >> 16))
	buf.WriteByte(byte(n >> 8))
	buf.WriteByte(byte(n))
}

func tlsProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	if err := writeWithDeadline(conn, deadline, minimalClientHello()); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 443}
	}
	buf := make([]byte, 16)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 5 || buf[0] != 0x16 {
		return probeResult{}, &ProbeFailedError{Port: 443}
	}
	banner := fmt.Sprintf("TLS handshake successful (version: %d.%d)", buf[1], buf[2])
	return probeResult{Service: "TLS", Banner: banner}, nil
}

// --- HTTP (80, 8080, 8000, 3000) --------------------------------------------

func httpProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	request := "GET / HTTP/1.1\r\nHost: target\r\nUser-Agent: " + userAgent + "\r\nConnection: close\r\n\r\n"
	if err := writeWithDeadline(conn, deadline, []byte(request)); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 80}
	}
	buf := make([]byte, 2048)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n == 0 {
		return probeResult{}, &ProbeFailedError{Port: 80}
	}
	resp := string(buf[:n])
	if !strings.HasPrefix(resp, "HTTP/") {
		return probeResult{}, &ProbeFailedError{Port: 80}
	}

	banner := firstLine(resp)
	if server := extractHeader(resp, "Server"); server != "" {
		banner += " Server: " + server
	}
	return probeResult{Service: "HTTP", Banner: banner}, nil
}

const userAgent = "nscan"

func extractHeader(resp, name string) string {
	lower := strings.ToLower(resp)
	prefix := strings.ToLower(name) + ":"
	idx := strings.Index(lower, "\r\n"+prefix)
	if idx < 0 {
		return ""
	}
	start := idx + len("\r\n"+prefix)
	end := strings.IndexAny(resp[start:], "\r\n")
	if end < 0 {
		end = len(resp) - start
	}
	return strings.TrimSpace(resp[start : start+end])
}

// --- FTP / SMTP / POP3 / IMAP (banner-first protocols) ----------------------

func ftpProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	return bannerFirstProbe(conn, deadline, 21, "220", "FTP")
}

func smtpProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	return bannerFirstProbe(conn, deadline, 25, "220", "SMTP")
}

func pop3Probe(conn net.Conn, deadline time.Time) (probeResult, error) {
	return bannerFirstProbe(conn, deadline, 110, "+OK", "POP3")
}

func imapProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	return bannerFirstProbe(conn, deadline, 143, "* OK", "IMAP")
}

func bannerFirstProbe(conn net.Conn, deadline time.Time, port int, prefix, service string) (probeResult, error) {
	buf := make([]byte, 512)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n == 0 {
		return probeResult{}, &ProbeFailedError{Port: port}
	}
	resp := string(buf[:n])
	if !strings.HasPrefix(resp, prefix) {
		return probeResult{}, &ProbeFailedError{Port: port}
	}
	return probeResult{Service: service, Banner: firstLine(resp)}, nil
}

// --- DNS (53) ----------------------------------------------------------------

// dnsProbe sends a version.bind CHAOS TXT query over TCP DNS framing,
// built with miekg/dns rather than hand-packed wire bytes, and checks the
// response's header QR bit.
func dnsProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	msg := new(dns.Msg)
	msg.SetQuestion("version.bind.", dns.TypeTXT)
	msg.Question[0].Qclass = dns.ClassCHAOS

	packed, err := msg.Pack()
	if err != nil {
		return probeResult{}, &ProbeFailedError{Port: 53}
	}

	framed := make([]byte, 2+len(packed))
	framed[0] = byte(len(packed) >> 8)
	framed[1] = byte(len(packed))
	copy(framed[2:], packed)

	if err := writeWithDeadline(conn, deadline, framed); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 53}
	}

	buf := make([]byte, 512)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 12 {
		return probeResult{}, &ProbeFailedError{Port: 53}
	}

	// TCP DNS responses are always length-prefixed (RFC 1035 §4.2.2): the
	// first two bytes are the message length, never header bytes, so they
	// must be stripped unconditionally before the QR bit is checked.
	if n < 14 {
		return probeResult{}, &ProbeFailedError{Port: 53}
	}
	payload := buf[2:n]
	if len(payload) < 12 || payload[2]&0x80 == 0 {
		return probeResult{}, &ProbeFailedError{Port: 53}
	}

	return probeResult{Service: "DNS", Banner: "DNS server responding"}, nil
}

// --- RDP (3389) ---------------------------------------------------------------

func rdpProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	request := []byte{
		0x03, 0x00, 0x00, 0x13, // TPKT header, length 19
		0x0e,                   // X.224 length
		0xe0, 0x00, 0x00, 0x00, // X.224 CR, dst-ref, src-ref
		0x00, 0x00,
		0x01, 0x00, 0x08, 0x00, // RDP_NEG_REQ: type, flags, length
		0x00, 0x00, 0x00, 0x00, // requested protocols
	}
	if err := writeWithDeadline(conn, deadline, request); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 3389}
	}
	buf := make([]byte, 32)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 4 || buf[0] != 0x03 || buf[1] != 0x00 {
		return probeResult{}, &ProbeFailedError{Port: 3389}
	}
	return probeResult{Service: "RDP", Banner: "Remote Desktop Protocol"}, nil
}

// --- PostgreSQL (5432) ----------------------------------------------------------

func postgresProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	sslRequest := []byte{0x00, 0x00, 0x00, 0x08, 0x04, 0xd2, 0x16, 0x2f}
	if err := writeWithDeadline(conn, deadline, sslRequest); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 5432}
	}
	buf := make([]byte, 8)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 1 || (buf[0] != 'S' && buf[0] != 'N') {
		return probeResult{}, &ProbeFailedError{Port: 5432}
	}
	return probeResult{Service: "PostgreSQL", Banner: "PostgreSQL database"}, nil
}

// --- MySQL (3306) ----------------------------------------------------------------

func mysqlProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	buf := make([]byte, 256)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 5 || buf[4] != 0x0a {
		return probeResult{}, &ProbeFailedError{Port: 3306}
	}
	version := extractNulTerminated(buf[5:n], 20)
	return probeResult{Service: "MySQL", Banner: "MySQL " + version}, nil
}

func extractNulTerminated(b []byte, cap int) string {
	if len(b) > cap {
		b = b[:cap]
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// --- MSSQL (1433) ----------------------------------------------------------------

func mssqlProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	preLogin := buildTDSPreLogin()
	if err := writeWithDeadline(conn, deadline, preLogin); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 1433}
	}
	buf := make([]byte, 64)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 8 || buf[0] != 0x04 {
		return probeResult{}, &ProbeFailedError{Port: 1433}
	}
	return probeResult{Service: "MSSQL", Banner: "Microsoft SQL Server"}, nil
}

// buildTDSPreLogin constructs a 39-byte TDS Pre-Login packet: an 8-byte
// header (type 0x12) followed by option tokens for VERSION, ENCRYPTION,
// INSTOPT and THREADID, each pointing into a small trailing data section,
// and a terminator token.
func buildTDSPreLogin() []byte {
	const (
		headerLen      = 8
		optionTableLen = 21 // 4 options * 5 bytes + 1 terminator byte
		payloadLen     = 6 + 1 + 1 + 2 // VERSION + ENCRYPTION + INSTOPT + THREADID payloads
		totalLen       = headerLen + optionTableLen + payloadLen
	)

	pkt := make([]byte, totalLen)
	pkt[0] = 0x12 // Pre-Login packet type
	pkt[1] = 0x01 // status: end of message
	pkt[2] = 0x00
	pkt[3] = totalLen
	pkt[4] = 0x00
	pkt[5] = 0x00
	pkt[6] = 0x01
	pkt[7] = 0x00

	dataOffset := headerLen + optionTableLen
	writeOption := func(idx int, token byte, length int) {
		base := headerLen + idx*5
		pkt[base] = token
		pkt[base+1] = byte(dataOffset >> 8)
		pkt[base+2] = byte(dataOffset)
		pkt[base+3] = byte(length >> 8)
		pkt[base+4] = byte(length)
		dataOffset += length
	}

	writeOption(0, 0x00, 6) // VERSION
	writeOption(1, 0x01, 1) // ENCRYPTION
	writeOption(2, 0x02, 1) // INSTOPT
	writeOption(3, 0x03, 2) // THREADID
	pkt[headerLen+4*5] = 0xff // terminator

	return pkt
}

// --- SMB / CIFS (139, 445) ------------------------------------------------------

func smbProbe(conn net.Conn, deadline time.Time) (probeResult, error) {
	request := []byte{0x81, 0x00, 0x00, 0x44}
	if err := writeWithDeadline(conn, deadline, request); err != nil {
		return probeResult{}, &ProbeFailedError{Port: 445}
	}
	buf := make([]byte, 8)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n < 4 || (buf[0] != 0x82 && buf[0] != 0x83) {
		return probeResult{}, &ProbeFailedError{Port: 445}
	}
	return probeResult{Service: "SMB", Banner: "SMB/CIFS file sharing"}, nil
}

// --- generic fallback -------------------------------------------------------

// genericProbe is used for any port without a registered protocol probe:
// any non-empty read succeeds, with CR/LF normalized to spaces.
func genericProbe(conn net.Conn, deadline time.Time, port int) (probeResult, error) {
	buf := make([]byte, BannerBufferSize)
	n, err := readWithDeadline(conn, deadline, buf)
	if err != nil || n == 0 {
		return probeResult{}, &ProbeFailedError{Port: port}
	}
	banner := normalizeBanner(string(buf[:n]))
	if banner == "" {
		return probeResult{}, &ProbeFailedError{Port: port}
	}
	return probeResult{Service: unknownServiceName(port), Banner: banner}, nil
}

func normalizeBanner(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
