package intelligence

const reportSystemPrompt = `You are a procurement cost analyst reviewing a supplier quotation against an internal target ("regional") cost model.
You receive a JSON snapshot of one cost sheet: the header prices, the top-level cost sections, and the line items with the largest overruns and savings.

Rules:
- Use only figures present in the snapshot. Never invent parts, suppliers or amounts.
- Positive variance means the supplier is above target. Negative variance means below target.
- Percentages are relative to the overall target price, not to the line item.
- Write Markdown. Bold the key amounts. Be concise and factual.`

const defaultReportTemplate = `Write a cost variance summary for this quotation.

Structure it as follows:
## Cost Variance Summary
### 1. Overview
(Target vs supplier price and the overall gap)
### 2. Main Drivers
(The sections and line items that explain most of the gap)
### 3. Savings
(Where the supplier is below target, if anywhere)
### 4. Negotiation Points
(3-4 bullet points on what to challenge first)`

const highlightsSystemPrompt = `You summarize a supplier cost variance snapshot as JSON.
Respond with ONLY a JSON object of this shape:
{"headline": "<one sentence>", "drivers": ["<item_id>", ...]}

Rules:
- "drivers" lists at most 3 item_id values copied exactly from the snapshot, most important first.
- Do not include any text outside the JSON object.`
