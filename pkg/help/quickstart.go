package help

const QuickstartYAML = `# corporalyser Quick Start

pipeline:
  - "fetch: download sentence corpora (Wortschatz archives or web pages)"
  - "analyse: count n-grams, skip-grams and words per corpus"
  - "report: combine weighted analyses (and other reports) from a recipe"
  - "export: project a report into a keyboard layout tool format"

commands:
  fetch_wortschatz: |
    corporalyser fetch wortschatz eng_news_2020_1M deu_news_2020_1M

  fetch_web: |
    corporalyser fetch web --id blog_sample --urls "https://example.com/a,https://example.com/b"

  analyse: |
    corporalyser analyse eng_news_2020_1M --ngram-n 3 --skipgram-n 3 --show-progress

  analyse_keep_case: |
    corporalyser analyse deu_news_2020_1M --keep-case --detect-language

  report: |
    corporalyser report english

  export: |
    corporalyser export oxeylyzer english
    corporalyser export flat english --counts

  catalog: |
    corporalyser db analyses --limit 10
    corporalyser db reports
    corporalyser db report english

recipe_example: |
  # corpora/recipe/english.yaml
  metadata:
    id: english
    name: English
    languages: [en]
    version: 1.0.0
  sources:
    - id: eng_news_2020_1M
      type: analysis
      weight: 2
      strip_punctuation: true
    - id: eng_wikipedia_2016_1M
      type: analysis
      weight: 1
      strip_numbers: true
    - id: code_comments      # another report, consumed through its counts
      type: report
      weight: 0.5

key_files:
  - "corpora/data/<id>/sentences.txt (id<TAB>sentence lines)"
  - "corpora/analysis/<id>.json (counts per corpus)"
  - "corpora/analysis/<id>.summary.yaml (totals and top grams)"
  - "corpora/recipe/<id>.yaml (report recipe, also .yml or .json)"
  - "corpora/report/<id>.json (counts, weighted counts, frequencies)"
  - "corpora/export/<kind>/<id>.json"
  - "corpora/corporalyser.db (catalog)"

invariants:
  - "Same sentence file hash = analysis skipped (use --force to recount)"
  - "Weights must be finite, non-negative and sum to more than zero"
  - "A report may not reference itself, directly or through other reports"
  - "Grams containing a stripped class are dropped; words are rewritten and merged"

error_behavior:
  - "Malformed sentence lines are skipped and counted; a file with no valid line fails"
  - "Exit codes: 0=success, 1=some ids failed or bad arguments, 2=workspace could not be opened"
`
