package tools

import (
	"context"

	"github.com/osapicare/atende-agent/internal/adapters/clinic"
	"github.com/osapicare/atende-agent/internal/domain"
)

// ClinicToolset builds the tools of the clinic profile. Every tool that
// touches the platform acquires its own credential through the client's
// broker; none of them depends on another tool having run first.
func ClinicToolset(client *clinic.Client, portalLink string) []Tool {
	return []Tool{
		&registerPatientTool{client: client},
		&createSchedulingTool{client: client},
		&listExamTypesTool{client: client},
		&listPatientsTool{client: client},
		&portalLinkTool{link: portalLink},
		&listPatientExamsTool{client: client},
		&editSchedulingTool{client: client},
	}
}

// platformResult relays the remote status and body verbatim so the
// persona can phrase a confirmation from what the platform answered.
func platformResult(res clinic.Result) map[string]any {
	return map[string]any{
		"status": res.Status,
		"body":   res.Body,
	}
}

// --- register_patient --- //

type registerPatientTool struct {
	client *clinic.Client
}

func (t *registerPatientTool) Name() string { return "register_patient" }

func (t *registerPatientTool) Description() string {
	return "Regista um novo paciente na unidade hospitalar. Recolha número de identificação, nome completo, data de nascimento (AAAA-MM-DD), contacto telefónico e sexo (1 masculino, 2 feminino) antes de chamar."
}

func (t *registerPatientTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"numero_identificacao": stringProp("Número do bilhete de identidade do paciente."),
		"nome_completo":        stringProp("Nome completo do paciente."),
		"data_nascimento":      stringProp("Data de nascimento, ex: 1990-01-01."),
		"contacto_telefonico":  stringProp("Contacto telefónico do paciente."),
		"id_sexo":              intProp("ID do sexo: 1 masculino, 2 feminino."),
	}, "numero_identificacao", "nome_completo", "data_nascimento", "contacto_telefonico", "id_sexo")
}

func (t *registerPatientTool) Internal() bool { return false }

func (t *registerPatientTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	numero, err := requireString(args, "numero_identificacao")
	if err != nil {
		return nil, err
	}
	nome, err := requireString(args, "nome_completo")
	if err != nil {
		return nil, err
	}
	nascimento, err := requireString(args, "data_nascimento")
	if err != nil {
		return nil, err
	}
	contacto, err := requireString(args, "contacto_telefonico")
	if err != nil {
		return nil, err
	}
	sexo, err := requireInt(args, "id_sexo")
	if err != nil {
		return nil, err
	}

	res, err := t.client.Post(ctx, "/pacients", map[string]any{
		"numero_identificacao": numero,
		"nome_completo":        nome,
		"data_nascimento":      nascimento,
		"contacto_telefonico":  contacto,
		"id_sexo":              sexo,
	})
	if err != nil {
		return failureFromErr(err), nil
	}
	return platformResult(res), nil
}

// --- create_scheduling --- //

type createSchedulingTool struct {
	client *clinic.Client
}

func (t *createSchedulingTool) Name() string { return "create_scheduling" }

func (t *createSchedulingTool) Description() string {
	return "Cria um agendamento de exame para um paciente. Use list_exam_types para obter o id_tipo_exame e list_patients para obter o id_paciente antes de chamar; nunca peça IDs ao usuário."
}

func (t *createSchedulingTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"id_paciente":      stringProp("ID do paciente."),
		"id_tipo_exame":    intProp("ID do tipo de exame, ex: 1 para Covid-19, 2 para Hepatite B."),
		"data_agendamento": stringProp("Data do agendamento no formato AAAA-MM-DD."),
		"hora_agendamento": stringProp("Hora do agendamento no formato HH:MM."),
	}, "id_paciente", "id_tipo_exame", "data_agendamento", "hora_agendamento")
}

func (t *createSchedulingTool) Internal() bool { return false }

func (t *createSchedulingTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	paciente, err := requireString(args, "id_paciente")
	if err != nil {
		return nil, err
	}
	tipoExame, err := requireInt(args, "id_tipo_exame")
	if err != nil {
		return nil, err
	}
	data, err := requireString(args, "data_agendamento")
	if err != nil {
		return nil, err
	}
	hora, err := requireString(args, "hora_agendamento")
	if err != nil {
		return nil, err
	}

	res, err := t.client.PostScoped(ctx, "/schedulings/set-schedule", func(healthUnitRef any) any {
		return map[string]any{
			"id_paciente":          paciente,
			"id_unidade_de_saude":  healthUnitRef,
			"exames_paciente": []map[string]any{{
				"id_tipo_exame":    tipoExame,
				"data_agendamento": data,
				"hora_agendamento": hora,
			}},
		}
	})
	if err != nil {
		return failureFromErr(err), nil
	}
	return platformResult(res), nil
}

// --- list_exam_types --- //

type listExamTypesTool struct {
	client *clinic.Client
}

func (t *listExamTypesTool) Name() string { return "list_exam_types" }

func (t *listExamTypesTool) Description() string {
	return "Obtém o ID, nome e descrição dos tipos de exame disponíveis. Ferramenta interna: use-a para resolver o id_tipo_exame a partir do nome, nunca mostre a resposta bruta ao usuário."
}

func (t *listExamTypesTool) Parameters() map[string]any {
	return objectSchema(map[string]any{})
}

func (t *listExamTypesTool) Internal() bool { return true }

func (t *listExamTypesTool) Call(ctx context.Context, _ ToolContext, _ map[string]any) (map[string]any, error) {
	res, err := t.client.Get(ctx, "/exam-types")
	if err != nil {
		return failureFromErr(err), nil
	}
	return platformResult(res), nil
}

// --- list_patients --- //

type listPatientsTool struct {
	client *clinic.Client
}

func (t *listPatientsTool) Name() string { return "list_patients" }

func (t *listPatientsTool) Description() string {
	return "Obtém os dados pessoais dos pacientes registados (nome, id, sexo, telefone, data de nascimento). Ferramenta interna: use-a para resolver o id_paciente, nunca exponha a resposta bruta ao usuário."
}

func (t *listPatientsTool) Parameters() map[string]any {
	return objectSchema(map[string]any{})
}

func (t *listPatientsTool) Internal() bool { return true }

func (t *listPatientsTool) Call(ctx context.Context, _ ToolContext, _ map[string]any) (map[string]any, error) {
	res, err := t.client.Get(ctx, "/pacients")
	if err != nil {
		return failureFromErr(err), nil
	}
	return platformResult(res), nil
}

// --- patient_portal_link --- //

type portalLinkTool struct {
	link string
}

func (t *portalLinkTool) Name() string { return "patient_portal_link" }

func (t *portalLinkTool) Description() string {
	return "Obtém o link da página de pacientes da plataforma, para aceder à lista de pacientes registados na unidade hospitalar."
}

func (t *portalLinkTool) Parameters() map[string]any {
	return objectSchema(map[string]any{})
}

func (t *portalLinkTool) Internal() bool { return true }

func (t *portalLinkTool) Call(_ context.Context, _ ToolContext, _ map[string]any) (map[string]any, error) {
	return map[string]any{"link": t.link}, nil
}

// --- list_patient_exams --- //

type listPatientExamsTool struct {
	client *clinic.Client
}

func (t *listPatientExamsTool) Name() string { return "list_patient_exams" }

func (t *listPatientExamsTool) Description() string {
	return "Obtém os exames agendados de um paciente, com ids, status e status de pagamento. Ferramenta interna: use-a para resolver o id_agendamento e o id_exame antes de editar um agendamento."
}

func (t *listPatientExamsTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"id_paciente": stringProp("ID do paciente."),
	}, "id_paciente")
}

func (t *listPatientExamsTool) Internal() bool { return true }

func (t *listPatientExamsTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	paciente, err := requireString(args, "id_paciente")
	if err != nil {
		return nil, err
	}

	res, err := t.client.Get(ctx, "/exams/patient/"+paciente)
	if err != nil {
		return failureFromErr(err), nil
	}
	return platformResult(res), nil
}

// --- edit_scheduling --- //

type editSchedulingTool struct {
	client *clinic.Client
}

func (t *editSchedulingTool) Name() string { return "edit_scheduling" }

func (t *editSchedulingTool) Description() string {
	return "Edita um agendamento de exame existente: data, hora, status do agendamento e status do pagamento. id_exame e id_agendamento são obrigatórios e pelo menos um dos restantes campos deve ser fornecido. Resolva os ids com list_patient_exams, nunca os peça ao usuário."
}

func (t *editSchedulingTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
		"id_exame":         stringProp("ID do exame a editar."),
		"id_agendamento":   stringProp("ID do agendamento a editar."),
		"data_agendamento": stringProp("Nova data no formato AAAA-MM-DD."),
		"hora_agendamento": stringProp("Nova hora no formato HH:MM."),
		"status":           stringProp("Novo status: 'pendente', 'confirmado' ou 'cancelado'."),
		"status_pagamento": stringProp("Novo status de pagamento: 'pendente', 'pago' ou 'cancelado'."),
	}, "id_exame", "id_agendamento")
}

func (t *editSchedulingTool) Internal() bool { return false }

func (t *editSchedulingTool) Call(ctx context.Context, _ ToolContext, args map[string]any) (map[string]any, error) {
	idExame, err := requireString(args, "id_exame")
	if err != nil {
		return nil, err
	}
	idAgendamento, err := requireString(args, "id_agendamento")
	if err != nil {
		return nil, err
	}

	update := map[string]any{"id_agendamento": idAgendamento}
	provided := 0
	for _, campo := range []string{"data_agendamento", "hora_agendamento", "status", "status_pagamento"} {
		if v := getString(args, campo); v != "" {
			update[campo] = v
			provided++
		}
	}
	if provided == 0 {
		return nil, domain.Validationf(
			"pelo menos um dos campos data_agendamento, hora_agendamento, status ou status_pagamento deve ser fornecido")
	}

	res, err := t.client.Post(ctx, "/exams/"+idExame, update)
	if err != nil {
		return failureFromErr(err), nil
	}
	return platformResult(res), nil
}
