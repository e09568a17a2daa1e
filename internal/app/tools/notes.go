package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/osapicare/atende-agent/internal/adapters/notes"
)

// NotesToolset builds the tools of the notes profile over one document
// store client.
func NotesToolset(client *notes.Client) []Tool {
	now := time.Now
	return []Tool{
		&createNoteTool{client: client, now: now},
		&listNotesTool{client: client},
		&renderNotesTool{client: client},
		&searchNotesTool{client: client},
		&updateNoteFieldTool{client: client},
		&deleteNoteTool{client: client},
	}
}

// --- create_note --- //

type createNoteTool struct {
	client *notes.Client
	now    func() time.Time
}

func (t *createNoteTool) Name() string { return "create_note" }

func (t *createNoteTool) Description() string {
	return "Cria uma nova nota ou tarefa. O título é obrigatório; a data deve vir no formato 'DD-MM', 'Hoje' ou 'Amanhã'. Pergunte ao usuário pelos dados que faltarem antes de chamar."
}

func (t *createNoteTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"titulo":    stringProp("Título da nota."),
		"descricao": stringProp("Descrição da nota."),
		"data":      stringProp("Data da tarefa: 'DD-MM', 'Hoje' ou 'Amanhã'."),
	}, "titulo", "descricao", "data")
}

func (t *createNoteTool) Internal() bool { return false }

func (t *createNoteTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	titulo, err := requireString(args, "titulo")
	if err != nil {
		return nil, err
	}
	descricao, err := requireString(args, "descricao")
	if err != nil {
		return nil, err
	}
	data, err := requireString(args, "data")
	if err != nil {
		return nil, err
	}

	note := notes.Note{
		Titulo:      titulo,
		Descricao:   descricao,
		Data:        data,
		Status:      "Pendente",
		DataCriacao: t.now().Format("2006-01-02 15:04:05"),
	}

	id, err := t.client.Create(ctx, note)
	if err != nil {
		return failureFromErr(err), nil
	}

	return map[string]any{
		"status":  "ok",
		"id":      id,
		"message": "Nota criada com sucesso!",
	}, nil
}

// --- list_notes --- //

type listNotesTool struct {
	client *notes.Client
}

func (t *listNotesTool) Name() string { return "list_notes" }

func (t *listNotesTool) Description() string {
	return "Lista todas as notas em formato bruto (mapa id -> nota). Use apenas quando precisar dos dados crus; para mostrar notas ao usuário prefira render_notes."
}

func (t *listNotesTool) Parameters() map[string]any {
	return objectSchema(map[string]any{})
}

func (t *listNotesTool) Internal() bool { return false }

func (t *listNotesTool) Call(ctx context.Context, _ ToolContext, _ map[string]any) (map[string]any, error) {
	all, err := t.client.List(ctx)
	if err != nil {
		return failureFromErr(err), nil
	}
	return map[string]any{
		"status": "ok",
		"count":  len(all),
		"notes":  notesToAny(all),
	}, nil
}

// --- render_notes --- //

type renderNotesTool struct {
	client *notes.Client
}

func (t *renderNotesTool) Name() string { return "render_notes" }

func (t *renderNotesTool) Description() string {
	return "Lista todas as notas já formatadas de forma legível, incluindo o ID de cada uma. Use sempre que for apresentar as notas diretamente ao usuário."
}

func (t *renderNotesTool) Parameters() map[string]any {
	return objectSchema(map[string]any{})
}

func (t *renderNotesTool) Internal() bool { return false }

func (t *renderNotesTool) Call(ctx context.Context, _ ToolContext, _ map[string]any) (map[string]any, error) {
	all, err := t.client.List(ctx)
	if err != nil {
		return failureFromErr(err), nil
	}
	if len(all) == 0 {
		return map[string]any{"status": "ok", "text": "Nenhuma nota encontrada."}, nil
	}
	return map[string]any{
		"status": "ok",
		"text":   formatNotes("--- SUAS NOTAS ---", all),
	}, nil
}

// --- search_notes --- //

type searchNotesTool struct {
	client *notes.Client
}

func (t *searchNotesTool) Name() string { return "search_notes" }

func (t *searchNotesTool) Description() string {
	return "Busca notas que contenham um termo em um campo ('titulo' ou 'descricao'; padrão 'titulo') e devolve as encontradas já formatadas. A busca não diferencia maiúsculas de minúsculas."
}

func (t *searchNotesTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"termo": stringProp("Termo a buscar."),
		"campo": stringProp("Campo da busca: 'titulo' ou 'descricao'. Padrão: 'titulo'."),
	}, "termo")
}

func (t *searchNotesTool) Internal() bool { return false }

func (t *searchNotesTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	termo, err := requireString(args, "termo")
	if err != nil {
		return nil, err
	}
	campo := getString(args, "campo")
	if campo == "" {
		campo = "titulo"
	}

	all, err := t.client.List(ctx)
	if err != nil {
		return failureFromErr(err), nil
	}

	// The store has no query parameters, so the filter runs client-side
	// over the full dump.
	found := make(map[string]notes.Note)
	needle := strings.ToLower(termo)
	for id, n := range all {
		var value string
		switch campo {
		case "descricao":
			value = n.Descricao
		default:
			value = n.Titulo
		}
		if strings.Contains(strings.ToLower(value), needle) {
			found[id] = n
		}
	}

	if len(found) == 0 {
		return map[string]any{
			"status": "ok",
			"count":  0,
			"text":   fmt.Sprintf("Nenhuma nota encontrada com o termo '%s' no campo '%s'.", termo, campo),
		}, nil
	}

	header := fmt.Sprintf("--- Notas Encontradas com '%s' no campo '%s' ---", termo, campo)
	return map[string]any{
		"status": "ok",
		"count":  len(found),
		"text":   formatNotes(header, found),
	}, nil
}

// --- update_note_field --- //

type updateNoteFieldTool struct {
	client *notes.Client
}

func (t *updateNoteFieldTool) Name() string { return "update_note_field" }

func (t *updateNoteFieldTool) Description() string {
	return "Atualiza um único campo de uma nota existente ('titulo', 'descricao', 'data' ou 'status'). Obtenha o id_nota pelo render_notes ou search_notes antes de chamar."
}

func (t *updateNoteFieldTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"id_nota":    stringProp("ID da nota a atualizar."),
		"campo":      stringProp("Campo a atualizar: 'titulo', 'descricao', 'data' ou 'status'."),
		"novo_valor": stringProp("Novo valor do campo."),
	}, "id_nota", "campo", "novo_valor")
}

func (t *updateNoteFieldTool) Internal() bool { return false }

func (t *updateNoteFieldTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	id, err := requireString(args, "id_nota")
	if err != nil {
		return nil, err
	}
	campo, err := requireString(args, "campo")
	if err != nil {
		return nil, err
	}
	valor, err := requireString(args, "novo_valor")
	if err != nil {
		return nil, err
	}

	if err := t.client.Patch(ctx, id, map[string]any{campo: valor}); err != nil {
		return failureFromErr(err), nil
	}

	return map[string]any{
		"status":  "ok",
		"message": fmt.Sprintf("Campo '%s' da tarefa '%s' atualizado para '%s' com sucesso!", campo, id, valor),
	}, nil
}

// --- delete_note --- //

type deleteNoteTool struct {
	client *notes.Client
}

func (t *deleteNoteTool) Name() string { return "delete_note" }

func (t *deleteNoteTool) Description() string {
	return "Apaga uma nota pelo ID. Peça confirmação explícita ao usuário antes de chamar esta ferramenta."
}

func (t *deleteNoteTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"id_nota": stringProp("ID da nota a apagar."),
	}, "id_nota")
}

func (t *deleteNoteTool) Internal() bool { return false }

func (t *deleteNoteTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	id, err := requireString(args, "id_nota")
	if err != nil {
		return nil, err
	}

	if err := t.client.Delete(ctx, id); err != nil {
		return failureFromErr(err), nil
	}

	return map[string]any{
		"status":  "ok",
		"message": fmt.Sprintf("Nota '%s' deletada com sucesso!", id),
	}, nil
}

// --- helpers --- //

func formatNotes(header string, all map[string]notes.Note) string {
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, id := range ids {
		n := all[id]
		fmt.Fprintf(&b, "ID: %s\n", id)
		fmt.Fprintf(&b, "  Título: %s\n", orNA(n.Titulo))
		fmt.Fprintf(&b, "  Descrição: %s\n", orNA(n.Descricao))
		fmt.Fprintf(&b, "  Data da Tarefa: %s\n", orNA(n.Data))
		fmt.Fprintf(&b, "  Status: %s\n", orNA(n.Status))
		fmt.Fprintf(&b, "  Criado em: %s\n", orNA(n.DataCriacao))
		b.WriteString("--------------------\n")
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func notesToAny(all map[string]notes.Note) map[string]any {
	out := make(map[string]any, len(all))
	for id, n := range all {
		out[id] = map[string]any{
			"titulo":       n.Titulo,
			"descricao":    n.Descricao,
			"data":         n.Data,
			"status":       n.Status,
			"data_criacao": n.DataCriacao,
		}
	}
	return out
}
