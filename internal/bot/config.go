package bot

import (
	"errors"
	"fmt"

	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/schema"
)

// loadDocuments перечитывает оба документа. Документы сохраняются даже
// с ошибками: дашборд показывает их для исправления.
func (b *LobbyBot) loadDocuments() (*config.Document, *config.Document, error) {
	cfg, err := b.loader.LoadConfig(b.configStore)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cmds, err := b.loader.LoadCommands(b.commandsStore, commandNames)
	if err != nil {
		return nil, nil, fmt.Errorf("load commands: %w", err)
	}
	b.docMu.Lock()
	b.configDoc, b.commandsDoc = cfg, cmds
	b.docMu.Unlock()
	return cfg, cmds, nil
}

// updateConfig меняет документ настроек под блокировкой и сохраняет его.
func (b *LobbyBot) updateConfig(fn func() error) error {
	b.docMu.Lock()
	defer b.docMu.Unlock()
	if b.configDoc == nil {
		return errors.New("config is not loaded")
	}
	if err := fn(); err != nil {
		return err
	}
	return b.configStore.Save(b.configDoc.Data)
}

// ConfigJSON — текущий документ настроек и список ошибок.
func (b *LobbyBot) ConfigJSON() ([]byte, []string) {
	b.docMu.RLock()
	defer b.docMu.RUnlock()
	return documentJSON(b.configDoc)
}

// ConfigOptions — варианты select-полей для формы настроек.
func (b *LobbyBot) ConfigOptions() map[string][]schema.Option { return b.loader.OptionSets() }

func (b *LobbyBot) CommandsJSON() ([]byte, []string) {
	b.docMu.RLock()
	defer b.docMu.RUnlock()
	return documentJSON(b.commandsDoc)
}

func documentJSON(d *config.Document) ([]byte, []string) {
	if d == nil {
		return []byte("null"), nil
	}
	return config.Encode(d.Data), d.Errors()
}

// ReplaceConfig проверяет присланный документ и записывает его на диск.
// Документ сохраняется и с ошибками, применяется он через Reload.
func (b *LobbyBot) ReplaceConfig(data map[string]any) (*schema.Report, error) {
	b.docMu.Lock()
	defer b.docMu.Unlock()
	report := b.loader.CheckConfig(data)
	if err := b.configStore.Save(data); err != nil {
		return report, err
	}
	b.configDoc = &config.Document{Data: data, Report: report}
	return report, nil
}

func (b *LobbyBot) ReplaceCommands(data map[string]any) (*schema.Report, error) {
	b.docMu.Lock()
	defer b.docMu.Unlock()
	report := b.loader.CheckCommands(data, commandNames)
	if err := b.commandsStore.Save(data); err != nil {
		return report, err
	}
	b.commandsDoc = &config.Document{Data: data, Report: report}
	return report, nil
}

// WebConfig — раздел web последнего прочитанного документа. Доступен,
// даже если остальной документ с ошибками и бот не запустился.
func (b *LobbyBot) WebConfig() (config.WebConfig, error) {
	b.docMu.RLock()
	defer b.docMu.RUnlock()
	if b.configDoc == nil {
		return config.WebConfig{}, errors.New("config is not loaded")
	}
	return b.configDoc.Web()
}
