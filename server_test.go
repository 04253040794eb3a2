package redkit

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// getFreePort and startTestServer follow the same pattern the teacher
// repo's own server_test.go used for its generic handler-based Server:
// bind to port 0, read back the assigned port, run the accept loop in
// a goroutine, and give callers a ready address plus a Shutdown hook.
func getFreePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("getFreePort: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	port := getFreePort(t)
	addr := "127.0.0.1"
	full := addr + ":" + itoa(port)
	srv := NewServer(full, "", false, 0)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", full)
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Cleanup(func() { srv.Shutdown() })
	return srv, full
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestIntegrationSetGetViaGoRedisClient(t *testing.T) {
	_, addr := startTestServer(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Set(ctx, "greeting", "hello", 0).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	got, err := client.Get(ctx, "greeting").Result()
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if got != "hello" {
		t.Errorf("GET = %q, want %q", got, "hello")
	}
}

func TestIntegrationPingPong(t *testing.T) {
	_, addr := startTestServer(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	if got, err := client.Ping(context.Background()).Result(); err != nil || got != "PONG" {
		t.Fatalf("PING = (%q, %v), want PONG", got, err)
	}
}

func TestIntegrationPublishSubscribe(t *testing.T) {
	_, addr := startTestServer(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, "news")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe confirmation: %v", err)
	}

	pubClient := redis.NewClient(&redis.Options{Addr: addr})
	defer pubClient.Close()
	if _, err := pubClient.Publish(ctx, "news", "hello subscribers").Result(); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		if msg.Payload != "hello subscribers" {
			t.Errorf("payload = %q, want %q", msg.Payload, "hello subscribers")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

// dialRaw opens a plain TCP connection for driving the inline
// ("netcat") form of the wire protocol, which no Redis client library
// will emit.
func dialRaw(t *testing.T, addr string) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewReader(conn)
}

func readLine(t *testing.T, br *bufio.Reader) string {
	t.Helper()
	line, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return line
}

func TestInlineNetcatForm(t *testing.T) {
	_, addr := startTestServer(t)
	conn, br := dialRaw(t, addr)

	fmt.Fprintf(conn, "set k v\r\n")
	if got := readLine(t, br); got != "+OK\r\n" {
		t.Fatalf("set reply = %q, want +OK", got)
	}
	fmt.Fprintf(conn, "strlen k\r\n")
	if got := readLine(t, br); got != ":1\r\n" {
		t.Fatalf("strlen reply = %q, want :1", got)
	}
}

func TestUnknownCommandWording(t *testing.T) {
	_, addr := startTestServer(t)
	conn, br := dialRaw(t, addr)

	fmt.Fprintf(conn, "foo bar\r\n")
	want := "-ERR unknown command 'foo', with args beginning with: 'foo', 'bar', \r\n"
	if got := readLine(t, br); got != want {
		t.Fatalf("reply = %q, want %q", got, want)
	}
}

func TestWrongTypeAgainstListKey(t *testing.T) {
	_, addr := startTestServer(t)
	conn, br := dialRaw(t, addr)

	fmt.Fprintf(conn, "lpush stack a b\r\n")
	if got := readLine(t, br); got != ":2\r\n" {
		t.Fatalf("lpush reply = %q, want :2", got)
	}
	fmt.Fprintf(conn, "get stack\r\n")
	want := "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n"
	if got := readLine(t, br); got != want {
		t.Fatalf("reply = %q, want %q", got, want)
	}
}

func TestMonitorEchoesExecutedCommands(t *testing.T) {
	_, addr := startTestServer(t)
	monConn, monBr := dialRaw(t, addr)

	fmt.Fprintf(monConn, "monitor\r\n")
	if got := readLine(t, monBr); got != "+OK\r\n" {
		t.Fatalf("monitor reply = %q, want +OK", got)
	}

	workConn, workBr := dialRaw(t, addr)
	fmt.Fprintf(workConn, "set watched 1\r\n")
	if got := readLine(t, workBr); got != "+OK\r\n" {
		t.Fatalf("set reply = %q, want +OK", got)
	}

	monConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	got := readLine(t, monBr)
	if !strings.HasPrefix(got, "+") || !strings.Contains(got, `"set" "watched" "1"`) {
		t.Fatalf("monitor echo = %q, want a simple string quoting the command", got)
	}
}

func TestClearClientByName(t *testing.T) {
	_, addr := startTestServer(t)
	victimConn, victimBr := dialRaw(t, addr)

	fmt.Fprintf(victimConn, "client setname doomed\r\n")
	if got := readLine(t, victimBr); got != "+OK\r\n" {
		t.Fatalf("setname reply = %q, want +OK", got)
	}

	adminConn, adminBr := dialRaw(t, addr)
	fmt.Fprintf(adminConn, "clear_client doomed\r\n")
	if got := readLine(t, adminBr); got != ":1\r\n" {
		t.Fatalf("clear_client reply = %q, want :1", got)
	}

	victimConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := victimBr.ReadString('\n'); err == nil {
		t.Fatal("expected the cleared client's connection to close")
	}
}

// TestShutdownIdempotent drives two concurrent Shutdown invocations;
// both must return, and exactly one teardown sequence may run.
func TestShutdownIdempotent(t *testing.T) {
	srv, _ := startTestServer(t)
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			srv.Shutdown()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("shutdown did not complete")
		}
	}
}
