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


package workflow

// summarizationPrompt is the system prompt for the summarization workflow.
const summarizationPrompt = `You are a helpful assistant who summarizes utterances of the Apollo 11 mission.
Make these summaries very dense with all curiosities included.
Limit the summary to 512 words.`

// questionGenerationPrompt is the system prompt for the question
// generation workflow. The model is instructed to return one question per
// line so the response can be split mechanically.
const questionGenerationPrompt = `You are a helpful assistant that is helping me predict which questions can be asked by people who are trying to
rediscover the Apollo 11 mission data. You will be given a number of utterances and you will predict the questions that
can be asked by people who are trying to rediscover the Apollo 11 mission data. You will ONLY return the questions separate by breaklines,
and nothing more. You will NEVER return more than 512 words.`
