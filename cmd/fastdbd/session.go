package main

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/fastdb-io/fastdb/catalog"
	"github.com/fastdb-io/fastdb/engine"
	"github.com/fastdb-io/fastdb/format"
	"github.com/fastdb-io/fastdb/protocol"
	"github.com/fastdb-io/fastdb/storage"
)

// Session is the per-connection state machine: login, then a command loop
// until the client disconnects. It holds a reference to the shared catalog
// but never owns it; the engine handle for the selected database is owned
// exclusively by this session.
type Session struct {
	conn    net.Conn
	catalog *catalog.Store
	store   *storage.Manager
	logger  *slog.Logger

	username string
	active   string
	handle   *engine.Handle
}

func newSession(conn net.Conn, cat *catalog.Store, store *storage.Manager, logger *slog.Logger) *Session {
	return &Session{
		conn:    conn,
		catalog: cat,
		store:   store,
		logger:  logger.With("remote", conn.RemoteAddr().String()),
	}
}

func (s *Session) run() {
	defer s.close()

	s.logger.Info("client connected")
	if !s.login() {
		return
	}
	s.loop()
}

// readFrame blocks for the next message. One read call is one message;
// frames beyond protocol.MaxFrame bytes are truncated.
func (s *Session) readFrame() (string, bool) {
	buf := make([]byte, protocol.MaxFrame)
	n, err := s.conn.Read(buf)
	if err != nil {
		return "", false
	}
	return string(buf[:n]), true
}

// reply writes exactly one message. A failed write means the peer is gone
// and the session must stop without writing again.
func (s *Session) reply(msg string) bool {
	if _, err := s.conn.Write([]byte(msg)); err != nil {
		s.logger.Warn("write failed, closing session", "err", err)
		return false
	}
	return true
}

// login performs the single authentication exchange. A denied login
// terminates the connection; there is no retry.
func (s *Session) login() bool {
	frame, ok := s.readFrame()
	if !ok {
		return false
	}

	username, password, found := strings.Cut(frame, protocol.Separator)
	if !found || !s.catalog.UserExists(username, password) {
		s.logger.Info("access denied", "user", username)
		s.reply(protocol.AccessDenied)
		return false
	}

	s.username = username
	s.logger.Info("access granted", "user", username)
	return s.reply(protocol.AccessGranted)
}

func (s *Session) loop() {
	for {
		frame, ok := s.readFrame()
		if !ok {
			return
		}

		request := strings.TrimSpace(frame)
		if request == "" {
			continue
		}
		if strings.EqualFold(request, "quit") || strings.EqualFold(request, "exit") {
			return
		}

		var resp string
		if cmd, ok := protocol.Classify(request); ok {
			resp = s.execCommand(cmd)
		} else {
			resp = s.execStatement(request)
		}
		if !s.reply(resp) {
			return
		}
	}
}

func (s *Session) execCommand(cmd protocol.Command) string {
	switch c := cmd.(type) {
	case protocol.CreateDatabase:
		return s.createDatabase(c)
	case protocol.ShowDatabases:
		return s.showDatabases()
	case protocol.DropDatabase:
		return s.dropDatabase(c.Name)
	case protocol.UseDatabase:
		return s.useDatabase(c.Name)
	case protocol.AddUser:
		return s.addUser(c.Username, c.Password)
	case protocol.DeleteUser:
		return s.deleteUser(c.Username)
	default:
		// Unreachable: Classify only produces the types above.
		return protocol.ErrEngine("unknown command")
	}
}

// createDatabase registers the name in the catalog. The backing store is
// materialized by the engine on the first use-database.
func (s *Session) createDatabase(c protocol.CreateDatabase) string {
	err := s.catalog.InsertDatabase(c.Name)
	if err == catalog.ErrDuplicateDatabase {
		if c.IfNotExists {
			return protocol.DatabaseCreated(c.Name)
		}
		return protocol.ErrDatabaseExists(c.Name)
	}
	if err != nil {
		s.logger.Error("create database failed", "db", c.Name, "err", err)
		return protocol.ErrEngine(err.Error())
	}
	return protocol.DatabaseCreated(c.Name)
}

func (s *Session) showDatabases() string {
	start := time.Now()
	names, err := s.catalog.ListDatabases()
	if err != nil {
		s.logger.Error("list databases failed", "err", err)
		return protocol.ErrEngine(err.Error())
	}
	if len(names) == 0 {
		return protocol.EmptySet(time.Since(start).Seconds())
	}

	tbl := format.NewTable()
	for _, name := range names {
		tbl.AddRow([]string{name})
	}
	return tbl.String()
}

// dropDatabase removes the catalog row, then the backing store. There is no
// recovery for a crash in between: the orphaned file is the accepted
// failure mode, a catalog row without a store is not.
func (s *Session) dropDatabase(name string) string {
	err := s.catalog.DeleteDatabase(name)
	if err == catalog.ErrUnknownDatabase {
		return protocol.ErrNoSuchDatabase(name)
	}
	if err != nil {
		s.logger.Error("drop database failed", "db", name, "err", err)
		return protocol.ErrEngine(err.Error())
	}

	// The session's own handle to the dropped database dies with it.
	if s.active == name {
		s.closeHandle()
	}

	if err := s.store.Remove(name); err != nil {
		s.logger.Error("backing store removal failed", "db", name, "err", err)
	}
	return protocol.DatabaseDeleted(name)
}

func (s *Session) useDatabase(name string) string {
	if !s.catalog.DatabaseExists(name) {
		return protocol.ErrUnknownDatabase(name)
	}

	// Re-selecting the active database is idempotent: same reply, no
	// reopen.
	if name == s.active {
		return protocol.DatabaseChanged()
	}

	s.closeHandle()
	h, err := engine.Open(name, s.store.Path(name))
	if err != nil {
		s.logger.Error("engine open failed", "db", name, "err", err)
		return protocol.ErrEngine(err.Error())
	}
	s.handle = h
	s.active = name
	s.logger.Info("database changed", "db", name)
	return protocol.DatabaseChanged()
}

func (s *Session) addUser(username, password string) string {
	err := s.catalog.InsertUser(username, password)
	if err == catalog.ErrDuplicateUser {
		return protocol.ErrUserExists(username)
	}
	if err != nil {
		s.logger.Error("add user failed", "user", username, "err", err)
		return protocol.ErrEngine(err.Error())
	}
	return protocol.UserAdded(username)
}

func (s *Session) deleteUser(username string) string {
	err := s.catalog.DeleteUser(username)
	if err == catalog.ErrUnknownUser {
		return protocol.ErrNoUser(username)
	}
	if err != nil {
		s.logger.Error("delete user failed", "user", username, "err", err)
		return protocol.ErrEngine(err.Error())
	}
	return protocol.UserDeleted(username)
}

// execStatement delegates a pass-through statement to the active database's
// engine handle.
func (s *Session) execStatement(statement string) string {
	if s.handle == nil {
		return protocol.ErrNoDatabaseSelected()
	}

	// Another session may have dropped the active database; the handle is
	// then invalid and a new use-database is required.
	if !s.catalog.DatabaseExists(s.active) {
		s.closeHandle()
		return protocol.ErrNoDatabaseSelected()
	}

	start := time.Now()
	if protocol.IsRead(statement) {
		rs, err := s.handle.Query(statement)
		if err != nil {
			return protocol.ErrEngine(err.Error())
		}
		secs := time.Since(start).Seconds()
		if len(rs.Rows) == 0 {
			return protocol.EmptySet(secs)
		}
		tbl := format.NewTable()
		tbl.SetHeader(rs.Columns)
		tbl.AddRows(rs.Rows)
		return tbl.String() + "\n" + protocol.RowsInSet(len(rs.Rows), secs)
	}

	res, err := s.handle.Exec(statement)
	if err != nil {
		s.handle.Rollback()
		return protocol.ErrEngine(err.Error())
	}
	if err := s.handle.Commit(); err != nil {
		return protocol.ErrEngine(err.Error())
	}
	return protocol.QueryOK(res.Affected, time.Since(start).Seconds())
}

func (s *Session) closeHandle() {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	s.active = ""
}

func (s *Session) close() {
	s.closeHandle()
	s.conn.Close()
	s.logger.Info("client disconnected", "user", s.username)
}
