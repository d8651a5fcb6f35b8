package conversation

import (
	"fmt"
	"strings"
)

// Catalog renders every menu and prompt the bot sends. Texts are static
// blocks composed with the company identity; there is no logic here beyond
// string composition.
type Catalog struct {
	CompanyName    string
	CompanyAddress string
	PaymentMethods string
	SupportWhats   string
	SupportEmail   string
	AtendDias      string
	AtendInicio    string
	AtendFim       string

	PlanMonthlyFee float64
	PlanSetupFee   float64
}

// VehicleTypes maps the plans-menu option number to a vehicle type label.
var VehicleTypes = map[string]string{
	"1": "Carro",
	"2": "Moto",
	"3": "Caminhão",
	"4": "Caminhonete/Pickup",
	"5": "Van/Utilitário",
	"6": "Ônibus",
	"7": "Máquina agrícola",
	"8": "Frota/Outros",
}

func (c *Catalog) MainMenu() string {
	return fmt.Sprintf(`🤖 *Atendimento %s*

1️⃣ Planos e valores
2️⃣ Suporte
3️⃣ Financeiro
4️⃣ Falar com atendente
0️⃣ Encerrar atendimento

Envie o número da opção ou escreva uma frase com seu pedido.`, c.CompanyName)
}

func (c *Catalog) Welcome(name string) string {
	greeting := "Olá"
	if name != "" {
		greeting = "Olá, " + name
	}
	return fmt.Sprintf(`%s! 👋 Sou o assistente virtual da *%s*.

%s

🕒 Horário: %s, %s–%s.
📍 Endereço: %s
💳 Pagamentos: %s
📞 Suporte: %s | ✉️ %s

Digite *menu* a qualquer momento.`,
		greeting, c.CompanyName, c.MainMenu(),
		c.AtendDias, c.AtendInicio, c.AtendFim,
		c.CompanyAddress, c.PaymentMethods,
		c.SupportWhats, c.SupportEmail)
}

func (c *Catalog) Fallback() string {
	return "Entendi sua mensagem 👌\n" + c.MainMenu()
}

// ---- Financeiro ----

func (c *Catalog) FinanceMenu() string {
	return fmt.Sprintf(`💰 *Financeiro %s*
1️⃣ Segunda via da fatura
2️⃣ Enviar comprovante de pagamento
3️⃣ Negociação/atualização de boleto ou PIX (em breve)
9️⃣ Voltar ao menu principal

Envie o número da opção.`, c.CompanyName)
}

func (c *Catalog) FinanceNotUnderstood() string {
	return "Não entendi. " + c.FinanceMenu()
}

func (c *Catalog) SecondCopyPrompt() string {
	return `📄 *Segunda via da fatura*
Informe *CPF/CNPJ* ou *e-mail* do cadastro:
Ex.: 000.000.000-00  *ou*  cliente@empresa.com`
}

func (c *Catalog) SecondCopyUnavailable() string {
	return fmt.Sprintf(`📄 *Segunda via da fatura*
Integração automática indisponível no momento.
Entre em contato: 📞 %s | ✉️ %s`, c.SupportWhats, c.SupportEmail)
}

func (c *Catalog) SecondCopyInvalidID() string {
	return "Por favor, informe *CPF/CNPJ* (11–14 dígitos) ou *e-mail* válido."
}

func (c *Catalog) SecondCopyNotFound() string {
	return "Não encontrei cadastro com esse CPF/CNPJ ou e-mail. Tente novamente ou digite *4* para atendente."
}

func (c *Catalog) NegotiationSoon() string {
	return "🔁 Negociação/atualização – em breve. Digite *4* para falar com atendente."
}

func (c *Catalog) ProofIntro() string {
	return `📎 *Enviar comprovante de pagamento*
1) Me informe o *ID/Nº da fatura* (ex.: #RS-2025-1234)
2) Em seguida, *envie o arquivo* do comprovante (imagem ou PDF).`
}

func (c *Catalog) ProofAskID() string {
	return "Por favor, informe o *ID/Nº da fatura* (ex.: #RS-2025-1234)."
}

func (c *Catalog) ProofWaitFile(faturaID string) string {
	return fmt.Sprintf("Perfeito! Agora *envie o arquivo* do comprovante (foto/print ou PDF) referente à fatura *%s*.", faturaID)
}

func (c *Catalog) ProofNeedsAttachment() string {
	return "Envie o *arquivo do comprovante* como *imagem* (foto/print) ou *documento PDF*."
}

func (c *Catalog) ProofReceived(faturaID string) string {
	return fmt.Sprintf("✅ Comprovante da fatura *%s* recebido com sucesso! Nossa equipe vai validar e retornar se necessário.", faturaID)
}

func (c *Catalog) ProofRelayFailed() string {
	return fmt.Sprintf("Recebi o seu arquivo, mas *não consegui registrar automaticamente* agora.\nEnvie por e-mail: %s ou tente novamente mais tarde.", c.SupportEmail)
}

func (c *Catalog) ProofProcessingError() string {
	return "Não consegui processar o arquivo agora. Tente novamente ou envie por e-mail."
}

// ---- Planos ----

func (c *Catalog) PlansMenu() string {
	return fmt.Sprintf(`🚗 *Planos %s*
Qual o tipo de veículo que você quer rastrear?

1️⃣ Carro
2️⃣ Moto
3️⃣ Caminhão
4️⃣ Caminhonete/Pickup
5️⃣ Van/Utilitário
6️⃣ Ônibus
7️⃣ Máquina agrícola
8️⃣ Frota/Outros

9️⃣ Voltar ao menu principal
🔟 Falar com atendente
0️⃣ Encerrar atendimento`, c.CompanyName)
}

func (c *Catalog) PlansNotUnderstood() string {
	return "Não entendi. " + c.PlansMenu()
}

func (c *Catalog) PlansAskQuantity(tipo string) string {
	return fmt.Sprintf(`📝 *Plano para %s*
Quantos veículos você quer rastrear? Responda com o número (ex.: 2).`, tipo)
}

func (c *Catalog) PlansQuote(tipo string, qty int) string {
	monthly := c.PlanMonthlyFee * float64(qty)
	setup := c.PlanSetupFee * float64(qty)
	return fmt.Sprintf(`💡 *Simulação – %s (%d veículo(s))*
Mensalidade: R$ %s (R$ %s por veículo)
Instalação: R$ %s (R$ %s por veículo)

💳 Pagamentos: %s
Para contratar, digite *10* e fale com um atendente.
Quer simular outro tipo de veículo? Envie o número da opção.`,
		tipo, qty,
		FormatBRL(monthly), FormatBRL(c.PlanMonthlyFee),
		FormatBRL(setup), FormatBRL(c.PlanSetupFee),
		c.PaymentMethods)
}

func (c *Catalog) PlansFleetReferral(tipo string, qty int) string {
	return fmt.Sprintf(`🚛 *Frota de %d veículos (%s)*
Para mais de 3 veículos preparamos uma proposta personalizada com desconto progressivo.
Digite *10* para falar com um atendente, ou envie outro tipo de veículo para simular.`, qty, tipo)
}

func (c *Catalog) PlansAskQuantityAgain() string {
	return "Não identifiquei a quantidade. Responda com o número de veículos (1 a 100). Ex.: 2"
}

// ---- Suporte ----

func (c *Catalog) SupportMenu() string {
	return fmt.Sprintf(`🛠️ *Suporte %s*
1️⃣ Rastreador sem sinal ou sem atualizar
2️⃣ Acesso ao aplicativo/plataforma
3️⃣ Roubo ou furto – acionar recuperação
4️⃣ Manutenção ou reinstalação do rastreador

5️⃣ Voltar ao menu principal
9️⃣ Falar com atendente
0️⃣ Encerrar atendimento

📞 %s | ✉️ %s`, c.CompanyName, c.SupportWhats, c.SupportEmail)
}

func (c *Catalog) SupportNotUnderstood() string {
	return "Não entendi. " + c.SupportMenu()
}

func (c *Catalog) SupportTopicSignal() string {
	return fmt.Sprintf(`📡 *Rastreador sem sinal*
1) Verifique se o veículo passou por área sem cobertura (túnel, garagem subterrânea, zona rural).
2) Ligue e desligue a ignição e aguarde 10 minutos.
3) Se o último ponto tiver mais de 24h, responda *9* para falar com um atendente.

📞 %s | ✉️ %s`, c.SupportWhats, c.SupportEmail)
}

func (c *Catalog) SupportTopicApp() string {
	return fmt.Sprintf(`📱 *Acesso ao aplicativo*
• Login é o e-mail do cadastro; use "Esqueci minha senha" para redefinir.
• Confira se o aplicativo está atualizado na loja.
• Persistindo, responda *9* para falar com um atendente.

✉️ %s`, c.SupportEmail)
}

func (c *Catalog) SupportRecoveryPrompt() string {
	return `🚨 *Roubo ou furto – recuperação*
Me envie em uma única mensagem:
• Placa e modelo do veículo
• Local e horário aproximado do ocorrido
• Já registrou boletim de ocorrência?

Nossa central inicia o protocolo de recuperação imediatamente.`
}

func (c *Catalog) SupportRecoveryAck(details, protocol string) string {
	return fmt.Sprintf(`✅ Registro recebido:
"%s"

Protocolo: *%s*
Nossa central de recuperação já foi acionada e vai te chamar neste WhatsApp.

%s`, details, protocol, c.SupportMenu())
}

func (c *Catalog) SupportTopicMaintenance() string {
	return fmt.Sprintf(`🔧 *Manutenção/reinstalação*
Agendamos a visita em até 2 dias úteis, %s, %s–%s.
📍 %s
Responda *9* para agendar com um atendente.`, c.AtendDias, c.AtendInicio, c.AtendFim, c.CompanyAddress)
}

// ---- Atendente / encerramento / feedback ----

func (c *Catalog) Handoff() string {
	return fmt.Sprintf(`👩‍💼 Ok! Vou transferir para um atendente humano. Aguarde um instante.
🕒 Horário de atendimento: %s, %s–%s.
Quando terminar, escreva *encerrar*.`, c.AtendDias, c.AtendInicio, c.AtendFim)
}

func (c *Catalog) FeedbackAsk() string {
	return `📝 Antes de encerrar: de *1* a *5*, qual nota você dá para este atendimento?`
}

func (c *Catalog) FeedbackInvalidScore() string {
	return "Por favor, responda com uma nota de *1* a *5*."
}

func (c *Catalog) FeedbackAskComment() string {
	return `Obrigado! Quer deixar um comentário? Escreva à vontade, ou digite *pular*.`
}

func (c *Catalog) Goodbye() string {
	return fmt.Sprintf(`✅ Atendimento encerrado. A *%s* agradece o contato!
Envie qualquer mensagem para começar de novo.`, c.CompanyName)
}

func (c *Catalog) GenericRetry() string {
	return "Tive um problema para consultar agora. Tente novamente em instantes."
}

// FormatBRL renders a value as Brazilian currency digits ("1234.5" → "1234,50").
func FormatBRL(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}
