package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"messageeditor/internal/config"
	"messageeditor/internal/logger"
	"messageeditor/internal/packet"
	"messageeditor/internal/surface"
	"messageeditor/pkg/api"
	"messageeditor/pkg/message"
)

// consolePlayer 控制台玩家桩，拥有全部权限
type consolePlayer struct {
	id uuid.UUID
}

func (p *consolePlayer) ID() uuid.UUID             { return p.id }
func (p *consolePlayer) Name() string              { return "console" }
func (p *consolePlayer) HasPermission(string) bool { return true }
func (p *consolePlayer) SendMessage(text string) {
	fmt.Println("[chat] " + text)
}

func main() {
	configPath := flag.String("config", "message-editor.yml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Writers: cfg.Log.Writer,
		File:    cfg.Log.File,
	})

	svc, err := api.New(api.Config{Config: cfg, Logger: log})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer svc.Close()

	version, _ := message.ParseVersion(cfg.Server.Version)
	registry := packet.NewRegistry(version)
	surfaces := surface.NewSet(version)
	player := &consolePlayer{id: uuid.New()}

	fmt.Println("message-editor sandbox")
	fmt.Println("  <surface>:<text>            注入一个出站包，如 GC:Hello world")
	fmt.Println("  /message-editor <subcmd>    管理命令: edit list reload clear-cache analyze stats")
	fmt.Println("  其他输入按入站聊天处理")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/message-editor") {
			runCommand(svc, player, strings.Fields(line)[1:])
			continue
		}
		if sf, text, ok := parseInject(line); ok {
			inject(svc, registry, surfaces, player, sf, text)
			continue
		}
		if !svc.HandleChat(player, line) {
			fmt.Println("[send] " + line)
		}
	}
}

// parseInject 解析 <surface>:<text> 注入语法
func parseInject(line string) (message.Surface, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return message.SurfaceNone, "", false
	}
	sf, ok := message.ParseSurface(line[:idx])
	if !ok {
		return message.SurfaceNone, "", false
	}
	return sf, line[idx+1:], true
}

// inject 构造对应位置的出站包并走一遍流水线
func inject(svc api.Service, registry *packet.Registry, surfaces *surface.Set, player *consolePlayer, sf message.Surface, text string) {
	c, err := buildPacket(registry, surfaces, sf, text)
	if err != nil {
		fmt.Println("[error] " + err.Error())
		return
	}
	ev := packet.NewEvent(c)
	if err := svc.HandlePacket(player, ev); err != nil {
		fmt.Println("[error] " + err.Error())
		return
	}
	switch {
	case ev.Cancelled():
		fmt.Println("[out] cancelled")
	case ev.Replaced():
		out, rsf := describe(surfaces, ev.Packet())
		fmt.Printf("[out] rewritten surface=%s text=%s\n", rsf.Symbol(), out)
	default:
		fmt.Println("[out] forwarded unchanged")
	}
}

func buildPacket(registry *packet.Registry, surfaces *surface.Set, sf message.Surface, text string) (*packet.Container, error) {
	switch sf {
	case message.GameChat, message.SystemChat, message.ActionBar:
		c := registry.New(packet.TypeChat)
		if err := surfaces.WriteChatType(c, sf); err != nil {
			return nil, err
		}
		return c, c.Components().Write(0, text)
	case message.BossBar:
		c := registry.New(packet.TypeBossBar)
		if err := c.Enums(packet.EnumBossBarAction).Write(0, packet.BossBarAdd); err != nil {
			return nil, err
		}
		return c, c.Components().Write(0, text)
	case message.ScoreboardTitle:
		c := registry.New(packet.TypeScoreboardObjective)
		if err := c.Strings().Write(0, "sandbox"); err != nil {
			return nil, err
		}
		if c.Strings().Size() == 2 {
			return c, c.Strings().Write(1, text)
		}
		return c, c.Components().Write(0, text)
	case message.ScoreboardEntry:
		c := registry.New(packet.TypeScoreboardScore)
		if err := c.Strings().Write(1, "sandbox"); err != nil {
			return nil, err
		}
		return c, c.Strings().Write(0, text)
	case message.LoginDisconnect:
		c := registry.New(packet.TypeLoginDisconnect)
		return c, c.Components().Write(0, text)
	case message.PlayDisconnect:
		c := registry.New(packet.TypePlayDisconnect)
		return c, c.Components().Write(0, text)
	}
	return nil, fmt.Errorf("surface %v: cannot build packet", sf)
}

func describe(surfaces *surface.Set, c *packet.Container) (string, message.Surface) {
	sf, ok := surfaces.Identify(c)
	if !ok {
		return "", message.SurfaceNone
	}
	text, _ := surfaces.Extract(c, sf)
	return text, sf
}

func runCommand(svc api.Service, player *consolePlayer, args []string) {
	if len(args) == 0 {
		fmt.Println("[cmd] usage: /message-editor <edit|list|reload|clear-cache|analyze|stats>")
		return
	}
	switch args[0] {
	case "edit":
		if len(args) < 2 {
			fmt.Println("[cmd] usage: /message-editor edit <messageId>")
			return
		}
		if err := svc.StartEdit(player, args[1]); err != nil {
			fmt.Println("[error] " + err.Error())
		}
	case "list":
		for i, spec := range svc.Edits() {
			fmt.Printf("[cmd] %d. name=%q pattern=%q before=%s after=%q after-place=%s\n",
				i+1, spec.Name, spec.Pattern, spec.BeforePlace, spec.After, spec.AfterPlace)
		}
	case "reload":
		if err := svc.Reload(); err != nil {
			fmt.Println("[error] " + err.Error())
		} else {
			fmt.Println("[cmd] reloaded")
		}
	case "clear-cache":
		scope := "all"
		if len(args) > 1 {
			scope = args[1]
		}
		switch scope {
		case "messages":
			svc.ClearMessages()
		case "data":
			svc.ClearMessageData()
		default:
			svc.ClearMessages()
			svc.ClearMessageData()
		}
		fmt.Println("[cmd] cache cleared: " + scope)
	case "analyze":
		if len(args) < 3 {
			fmt.Println("[cmd] usage: /message-editor analyze <surface> <on|off>")
			return
		}
		if err := svc.SetAnalyze(args[1], args[2] == "on"); err != nil {
			fmt.Println("[error] " + err.Error())
		}
	case "stats":
		st := svc.Stats()
		fmt.Printf("[cmd] total=%d matched=%d evaluations=%d\n", st.Total, st.Matched, st.Evaluations)
		for name, n := range st.ByRule {
			fmt.Printf("[cmd]   %s: %d\n", name, n)
		}
	default:
		fmt.Println("[cmd] unknown subcommand: " + args[0])
	}
}
