// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package workflow derives searchable artifacts from the loaded mission
// archive: it groups utterances into table-of-contents intervals, then
// generates and embeds summaries and anticipated questions for each entry
// with bounded concurrency.
//
// Every stage is idempotent. Grouping skips entries that already have
// grouped text, generation skips entries that already carry the artifact,
// and embedding checks each record key before insert, so the pipeline can
// be rerun after partial failures without duplicating records.
package workflow
