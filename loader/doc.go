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


// Package loader reads the positional row files of the mission archive
// (utterances, table of contents, photographs) and stores their records.
//
// Row files are JSON arrays of string arrays; each record type declares a
// positional Schema mapping columns onto its fields. Malformed rows are
// logged and dropped rather than failing the load.
package loader
